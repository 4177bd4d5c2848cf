// Package content holds the editorial entities of the site: blog posts and
// completed repair works, each with its repository and a shared
// draft/published/archived lifecycle.
package content

// Status is the editorial lifecycle state of a post or work. It is
// application-level state carried in the document body and is independent of
// the envelope timestamps.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}
