// Package events publishes shipment domain events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// Event types.
const (
	TypeShipmentPackaged = "shipment.packaged"
	TypeShipmentDeleted  = "shipment.deleted"
)

// Source identifies this service as the event producer.
const Source = "shipment-packaging"

// Event is a CloudEvents-style envelope. Subject is the shipment id and is
// used as the partition key.
type Event struct {
	ID              string      `json:"id"`
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	OrderID         string      `json:"orderid,omitempty"`
	Data            interface{} `json:"data"`
}

// ShipmentPackagedData is the payload of TypeShipmentPackaged.
type ShipmentPackagedData struct {
	ShipmentID      string           `json:"shipment_id"`
	OrderID         string           `json:"order_id"`
	PackageIDs      []string         `json:"package_ids"`
	UnpackagedItems int              `json:"unpackaged_items"`
	Weight          *model.Weight    `json:"weight,omitempty"`
	Amount          *model.Money     `json:"amount,omitempty"`
	ShippingService string           `json:"shipping_service,omitempty"`
	Trigger         string           `json:"trigger"`
	Packages        []PackageSummary `json:"packages"`
}

// PackageSummary describes one package in a packaged event.
type PackageSummary struct {
	ID            string        `json:"id"`
	PackageType   string        `json:"package_type"`
	Quantity      int           `json:"quantity"`
	Weight        *model.Weight `json:"weight,omitempty"`
	DeclaredValue *model.Money  `json:"declared_value,omitempty"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewEvent wraps data in an envelope with a fresh id.
func NewEvent(eventType, subject, orderID string, data interface{}) Event {
	return Event{
		ID:              uuid.NewString(),
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          Source,
		Subject:         subject,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		OrderID:         orderID,
		Data:            data,
	}
}

// ShipmentPackaged builds the packaged event for a shipment with hydrated packages.
func ShipmentPackaged(shipment *model.Shipment, trigger string) Event {
	data := ShipmentPackagedData{
		ShipmentID:      shipment.ID,
		OrderID:         shipment.OrderID,
		PackageIDs:      append([]string{}, shipment.PackageIDs...),
		UnpackagedItems: len(shipment.Data.UnpackagedItems),
		Weight:          shipment.Weight,
		Amount:          shipment.Amount,
		ShippingService: shipment.ShippingService,
		Trigger:         trigger,
		Packages:        make([]PackageSummary, 0, len(shipment.Packages)),
	}
	for _, pkg := range shipment.Packages {
		data.Packages = append(data.Packages, PackageSummary{
			ID:            pkg.ID,
			PackageType:   pkg.PackageTypeID(),
			Quantity:      pkg.Quantity(),
			Weight:        pkg.Weight,
			DeclaredValue: pkg.DeclaredValue,
		})
	}
	return NewEvent(TypeShipmentPackaged, shipment.ID, shipment.OrderID, data)
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
