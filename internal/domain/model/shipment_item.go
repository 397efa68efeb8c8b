package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentItem is an immutable line within a shipment or package.
//
// ID is unique per value: WithQuantity keeps it, Split mints a new one and
// records the lineage in ParentID.
type ShipmentItem struct {
	ID                string `json:"id" bson:"id" example:"3f1c2e9a-5b7d-4c1e-9a2b-8d6f0e4c3b21"`
	ParentID          string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	OrderItemID       string `json:"order_item_id" bson:"order_item_id" example:"42"`
	PurchasedEntityID string `json:"purchased_entity_id,omitempty" bson:"purchased_entity_id,omitempty" example:"sku-mug"`
	Title             string `json:"title" bson:"title" example:"Coffee mug"`
	Quantity          int    `json:"quantity" bson:"quantity" example:"2"`
	Weight            Weight `json:"weight" bson:"weight"`
	DeclaredValue     Money  `json:"declared_value" bson:"declared_value"`
}

// NewShipmentItem creates an item with a fresh identifier.
func NewShipmentItem(orderItemID, title string, quantity int, weight Weight, declaredValue Money) (ShipmentItem, error) {
	if orderItemID == "" {
		return ShipmentItem{}, fmt.Errorf("%w: order item id is required", ErrInvalidArgument)
	}
	if quantity <= 0 {
		return ShipmentItem{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if _, err := ParseWeightUnit(string(weight.Unit)); err != nil {
		return ShipmentItem{}, err
	}
	return ShipmentItem{
		ID:            uuid.NewString(),
		OrderItemID:   orderItemID,
		Title:         title,
		Quantity:      quantity,
		Weight:        weight,
		DeclaredValue: declaredValue,
	}, nil
}

// Key returns the legacy "orderItemId-quantity" key used by the builder UI.
func (i ShipmentItem) Key() string {
	return i.OrderItemID + "-" + strconv.Itoa(i.Quantity)
}

// Matches reports whether key addresses this item, by id or by legacy key.
func (i ShipmentItem) Matches(key string) bool {
	return key == i.ID || key == i.Key()
}

// WithQuantity returns the same logical line rescaled to quantity.
func (i ShipmentItem) WithQuantity(quantity int) (ShipmentItem, error) {
	if quantity <= 0 {
		return ShipmentItem{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if quantity == i.Quantity {
		return i, nil
	}
	ratio := decimal.NewFromInt(int64(quantity))
	original := decimal.NewFromInt(int64(i.Quantity))

	scaled := i
	scaled.Quantity = quantity
	scaled.Weight = i.Weight.Multiply(ratio).Divide(original).Round()
	scaled.DeclaredValue = i.DeclaredValue.Multiply(ratio).Divide(original).Round()
	return scaled, nil
}

// Split carves quantity units off the line as a new item with its own id.
func (i ShipmentItem) Split(quantity int) (ShipmentItem, error) {
	part, err := i.WithQuantity(quantity)
	if err != nil {
		return ShipmentItem{}, err
	}
	part.ID = uuid.NewString()
	part.ParentID = i.ID
	return part, nil
}

// SplitUnits breaks the line into single-unit items with their own ids. The
// last unit takes the rounding remainder so the units add up to the line.
func (i ShipmentItem) SplitUnits() ([]ShipmentItem, error) {
	units := make([]ShipmentItem, 0, i.Quantity)
	weight, value := i.Weight.Number, i.DeclaredValue.Number
	for n := 1; n <= i.Quantity; n++ {
		unit, err := i.Split(1)
		if err != nil {
			return nil, err
		}
		if n == i.Quantity {
			unit.Weight.Number = weight
			unit.DeclaredValue.Number = value
		}
		weight = weight.Sub(unit.Weight.Number)
		value = value.Sub(unit.DeclaredValue.Number)
		units = append(units, unit)
	}
	return units, nil
}

// sumItems totals weights in the first item's unit and declared values.
// Both results are nil when items is empty.
func sumItems(items []ShipmentItem) (*Weight, *Money, error) {
	if len(items) == 0 {
		return nil, nil, nil
	}
	weight := ZeroWeight(items[0].Weight.Unit)
	value := ZeroMoney(items[0].DeclaredValue.CurrencyCode)
	for _, item := range items {
		var err error
		if weight, err = weight.Add(item.Weight); err != nil {
			return nil, nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		if value, err = value.Add(item.DeclaredValue); err != nil {
			return nil, nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
	}
	return &weight, &value, nil
}

// addTare adds the tare of packageType to weight, converted into weight's unit.
func addTare(weight *Weight, packageType *PackageType) (*Weight, error) {
	if weight == nil || packageType == nil {
		return weight, nil
	}
	total, err := weight.Add(packageType.Weight)
	if err != nil {
		return nil, fmt.Errorf("package type %s tare: %w", packageType.ID, err)
	}
	total = total.Round()
	return &total, nil
}

func cloneItems(items []ShipmentItem) []ShipmentItem {
	if items == nil {
		return nil
	}
	out := make([]ShipmentItem, len(items))
	copy(out, items)
	return out
}

func indexOfItem(items []ShipmentItem, key string) int {
	for idx, item := range items {
		if item.ID == key {
			return idx
		}
	}
	for idx, item := range items {
		if item.Key() == key {
			return idx
		}
	}
	return -1
}
