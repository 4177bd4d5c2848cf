package catalog

import "github.com/dieselhub/dieselhub/pkg/repository"

// CollectionInjectors is the injectors collection name.
const CollectionInjectors = "injectors"

// Specifications holds the technical parameters of an injector.
type Specifications struct {
	PressureBar   float64 `bson:"pressureBar,omitempty" json:"pressureBar,omitempty"`
	FlowRate      float64 `bson:"flowRate,omitempty" json:"flowRate,omitempty"`
	Voltage       float64 `bson:"voltage,omitempty" json:"voltage,omitempty"`
	NozzleType    string  `bson:"nozzleType,omitempty" json:"nozzleType,omitempty"`
	ResistanceOhm float64 `bson:"resistanceOhm,omitempty" json:"resistanceOhm,omitempty"`
}

// Injector is one catalog part. ManufacturerID references a Manufacturer by
// id; the reference is not enforced and readers must tolerate it dangling
// after a manufacturer is deleted.
type Injector struct {
	repository.Envelope `bson:",inline"`

	Name               string         `bson:"name" json:"name"`
	PartNumber         string         `bson:"partNumber" json:"partNumber"`
	Slug               string         `bson:"slug" json:"slug"`
	ManufacturerID     string         `bson:"manufacturerId" json:"manufacturerId"`
	Specs              Specifications `bson:"specs" json:"specs"`
	CompatibleVehicles []string       `bson:"compatibleVehicles,omitempty" json:"compatibleVehicles,omitempty"`
	Tags               []string       `bson:"tags,omitempty" json:"tags,omitempty"`
	Active             bool           `bson:"active" json:"active"`
	PriceUAH           float64        `bson:"priceUah,omitempty" json:"priceUah,omitempty"`
	Stock              int            `bson:"stock,omitempty" json:"stock,omitempty"`
}

// InjectorPatch is a partial update for an injector.
type InjectorPatch struct {
	Name               *string         `bson:"name,omitempty"`
	PartNumber         *string         `bson:"partNumber,omitempty"`
	Slug               *string         `bson:"slug,omitempty"`
	ManufacturerID     *string         `bson:"manufacturerId,omitempty"`
	Specs              *Specifications `bson:"specs,omitempty"`
	CompatibleVehicles []string        `bson:"compatibleVehicles,omitempty"`
	Tags               []string        `bson:"tags,omitempty"`
	Active             *bool           `bson:"active,omitempty"`
	PriceUAH           *float64        `bson:"priceUah,omitempty"`
	Stock              *int            `bson:"stock,omitempty"`
}
