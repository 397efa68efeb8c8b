// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// WeightRequest is a weight given as a decimal string.
type WeightRequest struct {
	Number string `json:"number" binding:"required,numeric" example:"1.5"`
	Unit   string `json:"unit" binding:"required,oneof=g kg oz lb" example:"kg"`
} // @name WeightRequest

// MoneyRequest is an amount given as a decimal string.
type MoneyRequest struct {
	Number       string `json:"number" binding:"required,numeric" example:"10.00"`
	CurrencyCode string `json:"currency_code" binding:"required,len=3" example:"USD"`
} // @name MoneyRequest

// ShipmentItemRequest is one shipment line. Weight and declared value are
// line totals.
//
// @Description Shipment line with line-total weight and declared value
type ShipmentItemRequest struct {
	// ID is optional. A fresh id is generated when empty.
	ID                string        `json:"id,omitempty" example:"3f1c2e9a-5b7d-4c1e-9a2b-8d6f0e4c3b21"`
	OrderItemID       string        `json:"order_item_id" binding:"required" example:"42"`
	PurchasedEntityID string        `json:"purchased_entity_id,omitempty" example:"sku-mug"`
	Title             string        `json:"title" binding:"required" example:"Coffee mug"`
	Quantity          int           `json:"quantity" binding:"required,gt=0" example:"2"`
	Weight            WeightRequest `json:"weight" binding:"required"`
	DeclaredValue     MoneyRequest  `json:"declared_value" binding:"required"`
} // @name ShipmentItemRequest

// ToModel converts the request into a shipment item.
func (r ShipmentItemRequest) ToModel() (model.ShipmentItem, error) {
	weight, err := model.NewWeight(r.Weight.Number, model.WeightUnit(r.Weight.Unit))
	if err != nil {
		return model.ShipmentItem{}, err
	}
	value, err := model.NewMoney(r.DeclaredValue.Number, r.DeclaredValue.CurrencyCode)
	if err != nil {
		return model.ShipmentItem{}, err
	}
	item, err := model.NewShipmentItem(r.OrderItemID, r.Title, r.Quantity, weight, value)
	if err != nil {
		return model.ShipmentItem{}, err
	}
	if r.ID != "" {
		item.ID = r.ID
	}
	item.PurchasedEntityID = r.PurchasedEntityID
	return item, nil
}

// ItemsToModel converts a list of item requests.
func ItemsToModel(requests []ShipmentItemRequest) ([]model.ShipmentItem, error) {
	items := make([]model.ShipmentItem, 0, len(requests))
	for idx, r := range requests {
		item, err := r.ToModel()
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", idx, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ProposedShipmentRequest is the body used to create a shipment or seed a
// builder session for a new one.
//
// @Description Proposed shipment for an order
type ProposedShipmentRequest struct {
	Type             string                `json:"type,omitempty" example:"default"`
	Title            string                `json:"title,omitempty" example:"Shipment #1"`
	ShippingMethodID string                `json:"shipping_method_id" binding:"required" example:"flat_rate"`
	PackageTypeID    string                `json:"package_type_id,omitempty" example:"custom_box"`
	Items            []ShipmentItemRequest `json:"items" binding:"required,min=1,dive"`
} // @name ProposedShipmentRequest

// ToModel converts the request into a proposal for orderID.
func (r ProposedShipmentRequest) ToModel(orderID string) (model.ProposedShipment, error) {
	items, err := ItemsToModel(r.Items)
	if err != nil {
		return model.ProposedShipment{}, err
	}
	return model.ProposedShipment{
		OrderID:          orderID,
		Type:             r.Type,
		Title:            r.Title,
		Items:            items,
		PackageTypeID:    r.PackageTypeID,
		ShippingMethodID: r.ShippingMethodID,
	}, nil
}

// UpdateItemsRequest replaces the items of a shipment.
type UpdateItemsRequest struct {
	Items []ShipmentItemRequest `json:"items" binding:"required,min=1,dive"`
} // @name UpdateItemsRequest

// SelectRateRequest selects a service of the shipment's shipping method.
type SelectRateRequest struct {
	Service string `json:"service" binding:"required" example:"standard"`
} // @name SelectRateRequest

// AddPackageRequest adds an empty package to a builder session. An empty
// package type uses the shipping method default.
type AddPackageRequest struct {
	PackageTypeID string `json:"package_type_id,omitempty" example:"big_box"`
} // @name AddPackageRequest
