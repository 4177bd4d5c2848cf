package content

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/dieselhub/dieselhub/pkg/repository"
)

// CollectionWorks is the completed works collection name.
const CollectionWorks = "works"

// Vehicle identifies the customer's vehicle on a work record.
type Vehicle struct {
	Make  string `bson:"make" json:"make"`
	Model string `bson:"model" json:"model"`
	Year  int    `bson:"year,omitempty" json:"year,omitempty"`
}

// Work is one completed repair case published as a portfolio entry. VINHash
// is the sha256 of the normalized VIN; the plain VIN is never stored.
// ManufacturerID and InjectorIDs are unenforced references and may dangle.
type Work struct {
	repository.Envelope `bson:",inline"`

	Title            string     `bson:"title" json:"title"`
	CustomerInitials string     `bson:"customerInitials,omitempty" json:"customerInitials,omitempty"`
	Vehicle          Vehicle    `bson:"vehicle" json:"vehicle"`
	VINHash          string     `bson:"vinHash,omitempty" json:"vinHash,omitempty"`
	ManufacturerID   string     `bson:"manufacturerId,omitempty" json:"manufacturerId,omitempty"`
	InjectorIDs      []string   `bson:"injectorIds,omitempty" json:"injectorIds,omitempty"`
	Services         []string   `bson:"services,omitempty" json:"services,omitempty"`
	Testimonial      string     `bson:"testimonial,omitempty" json:"testimonial,omitempty"`
	BeforeImageURLs  []string   `bson:"beforeImageUrls,omitempty" json:"beforeImageUrls,omitempty"`
	AfterImageURLs   []string   `bson:"afterImageUrls,omitempty" json:"afterImageUrls,omitempty"`
	WorkDate         time.Time  `bson:"workDate" json:"workDate"`
	Locale           string     `bson:"locale" json:"locale"`
	Status           Status     `bson:"status" json:"status"`
	PublishedAt      *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	TechnicianID     string     `bson:"technicianId,omitempty" json:"technicianId,omitempty"`
	Tags             []string   `bson:"tags,omitempty" json:"tags,omitempty"`
}

// WorkPatch is a partial update for a work. Lifecycle fields move only
// through the repository's Publish/Unpublish/Archive helpers.
type WorkPatch struct {
	Title            *string    `bson:"title,omitempty"`
	CustomerInitials *string    `bson:"customerInitials,omitempty"`
	Vehicle          *Vehicle   `bson:"vehicle,omitempty"`
	VINHash          *string    `bson:"vinHash,omitempty"`
	ManufacturerID   *string    `bson:"manufacturerId,omitempty"`
	InjectorIDs      []string   `bson:"injectorIds,omitempty"`
	Services         []string   `bson:"services,omitempty"`
	Testimonial      *string    `bson:"testimonial,omitempty"`
	BeforeImageURLs  []string   `bson:"beforeImageUrls,omitempty"`
	AfterImageURLs   []string   `bson:"afterImageUrls,omitempty"`
	WorkDate         *time.Time `bson:"workDate,omitempty"`
	Locale           *string    `bson:"locale,omitempty"`
	TechnicianID     *string    `bson:"technicianId,omitempty"`
	Tags             []string   `bson:"tags,omitempty"`
}

// HashVIN returns the hex sha256 of a VIN normalized to lower case with
// spaces and separators stripped. Empty input hashes to the empty string so
// records without a VIN carry no hash at all.
func HashVIN(vin string) string {
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return -1
		default:
			return r
		}
	}, strings.ToLower(strings.TrimSpace(vin)))
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
