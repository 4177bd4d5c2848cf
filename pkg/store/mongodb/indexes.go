package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec describes one index to ensure on a collection.
type IndexSpec struct {
	Collection string
	Keys       bson.D
	Unique     bool
	Name       string
}

// EnsureIndexes creates the given indexes, ignoring ones that already exist.
// Unique indexes are the authoritative guard for uniqueness rules; the
// application-level pre-write checks are only a fast path.
func (a *Adapter) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	for _, spec := range specs {
		opts := options.Index().SetUnique(spec.Unique)
		if spec.Name != "" {
			opts.SetName(spec.Name)
		}
		model := mongo.IndexModel{Keys: spec.Keys, Options: opts}

		opCtx, cancel := a.withOperationTimeout(ctx)
		_, err := a.Collection(spec.Collection).Indexes().CreateOne(opCtx, model)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to ensure index %s on %s: %w", spec.Name, spec.Collection, err)
		}
		a.logger.Info("index ensured", "collection", spec.Collection, "name", spec.Name, "unique", spec.Unique)
	}
	return nil
}
