package content

import (
	"time"

	"github.com/dieselhub/dieselhub/pkg/repository"
)

// CollectionPosts is the blog posts collection name.
const CollectionPosts = "posts"

// BlogPost is one article. PublishedAt stays nil until the first publish and
// survives later unpublish/republish cycles.
type BlogPost struct {
	repository.Envelope `bson:",inline"`

	Title         string     `bson:"title" json:"title"`
	Slug          string     `bson:"slug" json:"slug"`
	Excerpt       string     `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Body          string     `bson:"body" json:"body"`
	BodyHTML      string     `bson:"bodyHtml,omitempty" json:"bodyHtml,omitempty"`
	CoverImageURL string     `bson:"coverImageUrl,omitempty" json:"coverImageUrl,omitempty"`
	Locale        string     `bson:"locale" json:"locale"`
	Status        Status     `bson:"status" json:"status"`
	PublishedAt   *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	Tags          []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	Category      string     `bson:"category,omitempty" json:"category,omitempty"`
	ReadTimeMin   int        `bson:"readTimeMin,omitempty" json:"readTimeMin,omitempty"`
	Views         int        `bson:"views" json:"views"`
}

// PostPatch is a partial update for a blog post. Status and PublishedAt are
// deliberately absent: lifecycle moves only through the repository's
// Publish/Unpublish/Archive helpers.
type PostPatch struct {
	Title         *string  `bson:"title,omitempty"`
	Slug          *string  `bson:"slug,omitempty"`
	Excerpt       *string  `bson:"excerpt,omitempty"`
	Body          *string  `bson:"body,omitempty"`
	BodyHTML      *string  `bson:"bodyHtml,omitempty"`
	CoverImageURL *string  `bson:"coverImageUrl,omitempty"`
	Locale        *string  `bson:"locale,omitempty"`
	Tags          []string `bson:"tags,omitempty"`
	Category      *string  `bson:"category,omitempty"`
	ReadTimeMin   *int     `bson:"readTimeMin,omitempty"`
}
