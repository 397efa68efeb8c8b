package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Package is a physical parcel within a shipment. Weight and DeclaredValue
// are recomputed on every structural change and are nil while the package
// holds no items.
type Package struct {
	ID            string         `json:"id" bson:"_id"`
	ShipmentID    string         `json:"shipment_id,omitempty" bson:"shipment_id"`
	Title         string         `json:"title" bson:"title"`
	PackageType   *PackageType   `json:"package_type,omitempty" bson:"package_type,omitempty"`
	Items         []ShipmentItem `json:"items" bson:"items"`
	Weight        *Weight        `json:"weight" bson:"weight"`
	DeclaredValue *Money         `json:"declared_value" bson:"declared_value"`
	TrackingCode  string         `json:"tracking_code,omitempty" bson:"tracking_code,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}

// NewPackage creates an empty package of packageType.
func NewPackage(shipmentID string, packageType PackageType, title string) *Package {
	now := time.Now().UTC()
	if title == "" {
		title = packageType.Label
	}
	return &Package{
		ID:          uuid.NewString(),
		ShipmentID:  shipmentID,
		Title:       title,
		PackageType: &packageType,
		Items:       []ShipmentItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PackageTypeID returns the id of the package type, or "" when unset.
func (p *Package) PackageTypeID() string {
	if p.PackageType == nil {
		return ""
	}
	return p.PackageType.ID
}

// AddItem appends item and recomputes totals. On error the package is unchanged.
func (p *Package) AddItem(item ShipmentItem) error {
	items := append(cloneItems(p.Items), item)
	return p.SetItems(items)
}

// RemoveItem removes the item addressed by key and recomputes totals.
func (p *Package) RemoveItem(key string) (ShipmentItem, error) {
	idx := indexOfItem(p.Items, key)
	if idx < 0 {
		return ShipmentItem{}, fmt.Errorf("%w: item %s in package %s", ErrNotFound, key, p.ID)
	}
	removed := p.Items[idx]
	items := make([]ShipmentItem, 0, len(p.Items)-1)
	items = append(items, p.Items[:idx]...)
	items = append(items, p.Items[idx+1:]...)
	if err := p.SetItems(items); err != nil {
		return ShipmentItem{}, err
	}
	return removed, nil
}

// HasItem reports whether key addresses an item in the package.
func (p *Package) HasItem(key string) bool {
	return indexOfItem(p.Items, key) >= 0
}

// SetItems replaces the contents and recomputes totals. On error the package
// is unchanged.
func (p *Package) SetItems(items []ShipmentItem) error {
	weight, value, err := sumItems(items)
	if err != nil {
		return err
	}
	if weight, err = addTare(weight, p.PackageType); err != nil {
		return err
	}
	if items == nil {
		items = []ShipmentItem{}
	}
	p.Items = items
	p.Weight = weight
	p.DeclaredValue = value
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Recalculate recomputes weight and declared value from the current items.
func (p *Package) Recalculate() error {
	return p.SetItems(p.Items)
}

// Quantity returns the total number of units in the package.
func (p *Package) Quantity() int {
	total := 0
	for _, item := range p.Items {
		total += item.Quantity
	}
	return total
}

// Clone returns a deep copy.
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	c := *p
	c.Items = cloneItems(p.Items)
	if p.PackageType != nil {
		pt := *p.PackageType
		pt.ShippingMethods = append([]string(nil), p.PackageType.ShippingMethods...)
		c.PackageType = &pt
	}
	if p.Weight != nil {
		w := *p.Weight
		c.Weight = &w
	}
	if p.DeclaredValue != nil {
		v := *p.DeclaredValue
		c.DeclaredValue = &v
	}
	return &c
}
