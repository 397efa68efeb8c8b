package model

import "github.com/shopspring/decimal"

// DefaultPackageTypeID is the package type used when a shipping method names none.
const DefaultPackageTypeID = "custom_box"

// Dimensions describes the outer size of a container.
type Dimensions struct {
	Length decimal.Decimal `json:"length" bson:"length" swaggertype:"string"`
	Width  decimal.Decimal `json:"width" bson:"width" swaggertype:"string"`
	Height decimal.Decimal `json:"height" bson:"height" swaggertype:"string"`
	Unit   string          `json:"unit" bson:"unit" example:"cm"`
}

// PackageType is a read-only physical container definition.
type PackageType struct {
	ID              string     `json:"id" bson:"id" example:"custom_box"`
	Label           string     `json:"label" bson:"label" example:"Custom box"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	Dimensions      Dimensions `json:"dimensions" bson:"-"`
	Weight          Weight     `json:"weight" bson:"weight"`
	ShippingMethods []string   `json:"shipping_methods,omitempty" bson:"-"`
}

// PackageTypeDefinition is the listing view of a package type.
type PackageTypeDefinition struct {
	Label       string `json:"label" example:"Custom box"`
	Description string `json:"description,omitempty"`
}

// Definition returns the listing view.
func (p PackageType) Definition() PackageTypeDefinition {
	return PackageTypeDefinition{Label: p.Label, Description: p.Description}
}

// AvailableFor reports whether the type may be used by the shipping method.
// A type restricted to no method is available to all of them.
func (p PackageType) AvailableFor(methodID string) bool {
	if len(p.ShippingMethods) == 0 {
		return true
	}
	for _, id := range p.ShippingMethods {
		if id == methodID {
			return true
		}
	}
	return false
}

// DefaultPackageType is the built-in zero-tare box.
func DefaultPackageType() PackageType {
	return PackageType{
		ID:          DefaultPackageTypeID,
		Label:       "Custom box",
		Description: "Box of unspecified dimensions",
		Weight:      ZeroWeight(Gram),
	}
}
