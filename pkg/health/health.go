// Package health runs readiness checks against the storage backends.
package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the result of one component check.
type CheckResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Pinger is the connectivity probe both storage adapters expose.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Registry holds named checks. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	pingers map[string]Pinger
	timeout time.Duration
}

// NewRegistry creates an empty registry. Each check gets at most timeout to
// complete; zero means 5 seconds.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Registry{pingers: make(map[string]Pinger), timeout: timeout}
}

// Register adds a named backend probe. Re-registering a name replaces it.
func (r *Registry) Register(name string, p Pinger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pingers[name] = p
}

// CheckAll probes every registered backend concurrently and returns the
// results sorted by name, plus whether all of them are healthy.
func (r *Registry) CheckAll(ctx context.Context) ([]CheckResult, bool) {
	r.mu.RLock()
	pingers := make(map[string]Pinger, len(r.pingers))
	for name, p := range r.pingers {
		pingers[name] = p
	}
	timeout := r.timeout
	r.mu.RUnlock()

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]CheckResult, 0, len(pingers))

	for name, p := range pingers {
		wg.Add(1)
		go func(name string, p Pinger) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			err := p.Ping(checkCtx)
			result := CheckResult{
				Name:     name,
				Status:   StatusHealthy,
				Duration: time.Since(start),
			}
			if err != nil {
				result.Status = StatusUnhealthy
				result.Error = err.Error()
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(name, p)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	healthy := true
	for _, result := range results {
		if result.Status != StatusHealthy {
			healthy = false
		}
	}
	return results, healthy
}
