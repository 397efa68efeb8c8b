package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// RateCalculator prices a shipment for the services of a shipping method.
type RateCalculator interface {
	CalculateRates(ctx context.Context, method *ShippingMethod, shipment *model.Shipment) ([]model.ShippingRate, error)
}

// FlatRateCalculator prices each service as base + perKg * kg + perPackage * packages.
type FlatRateCalculator struct{}

// NewFlatRateCalculator creates the flat-rate calculator.
func NewFlatRateCalculator() *FlatRateCalculator {
	return &FlatRateCalculator{}
}

// CalculateRates implements RateCalculator. A shipment without a known
// weight cannot be priced.
func (c *FlatRateCalculator) CalculateRates(ctx context.Context, method *ShippingMethod, shipment *model.Shipment) ([]model.ShippingRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if shipment.Weight == nil {
		return nil, fmt.Errorf("%w: shipment %s has no weight", model.ErrConsistency, shipment.ID)
	}
	kg, err := shipment.Weight.ConvertTo(model.Kilogram)
	if err != nil {
		return nil, err
	}
	packages := decimal.NewFromInt(int64(packageCount(shipment)))

	rates := make([]model.ShippingRate, 0, len(method.services))
	for _, svc := range method.services {
		amount, err := svc.Base.Add(svc.PerKg.Multiply(kg.Number))
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.Service.ID, err)
		}
		if amount, err = amount.Add(svc.PerPackage.Multiply(packages)); err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.Service.ID, err)
		}
		rates = append(rates, model.ShippingRate{
			ID:               method.ID() + "--" + svc.Service.ID,
			ShippingMethodID: method.ID(),
			Service:          svc.Service,
			Amount:           amount.Round(),
			Description:      svc.Description,
			DeliveryDays:     svc.DeliveryDays,
		})
	}
	return rates, nil
}

// packageCount is the number of parcels; an unpackaged shipment ships as one.
func packageCount(shipment *model.Shipment) int {
	if n := len(shipment.Packages); n > 0 {
		return n
	}
	if n := len(shipment.PackageIDs); n > 0 {
		return n
	}
	return 1
}
