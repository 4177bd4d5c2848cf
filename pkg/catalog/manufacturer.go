// Package catalog holds the parts catalog: injector manufacturers and the
// injectors themselves, each with its repository.
package catalog

import "github.com/dieselhub/dieselhub/pkg/repository"

// CollectionManufacturers is the manufacturers collection name.
const CollectionManufacturers = "manufacturers"

// Manufacturer is one injector manufacturer (Bosch, Delphi, Denso, ...).
type Manufacturer struct {
	repository.Envelope `bson:",inline"`

	Name        string `bson:"name" json:"name"`
	Slug        string `bson:"slug" json:"slug"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	LogoURL     string `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	Active      bool   `bson:"active" json:"active"`
	// SortOrder drives display ordering on the site, lowest first.
	SortOrder int `bson:"sortOrder" json:"sortOrder"`
}

// ManufacturerPatch is a partial update. Envelope fields are not
// representable here, so an update can never touch them.
type ManufacturerPatch struct {
	Name        *string `bson:"name,omitempty"`
	Slug        *string `bson:"slug,omitempty"`
	Description *string `bson:"description,omitempty"`
	LogoURL     *string `bson:"logoUrl,omitempty"`
	Active      *bool   `bson:"active,omitempty"`
	SortOrder   *int    `bson:"sortOrder,omitempty"`
}
