// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

type MockShipmentService struct {
	mock.Mock
}

func (m *MockShipmentService) Create(ctx context.Context, proposal model.ProposedShipment) (*model.Shipment, error) {
	args := m.Called(ctx, proposal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentService) Get(ctx context.Context, id string) (*model.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentService) ListByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Shipment), args.Error(1)
}

func (m *MockShipmentService) UpdateItems(ctx context.Context, id string, items []model.ShipmentItem) (*model.Shipment, error) {
	args := m.Called(ctx, id, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentService) Repackage(ctx context.Context, id string) (*model.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentService) CalculateRates(ctx context.Context, id string) ([]model.ShippingRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingRate), args.Error(1)
}

func (m *MockShipmentService) SelectRate(ctx context.Context, id, serviceID string) (*model.Shipment, error) {
	args := m.Called(ctx, id, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShipmentService) MarkNeedsRepackage(ctx context.Context, orderID, orderItemID string) (int, error) {
	args := m.Called(ctx, orderID, orderItemID)
	return args.Int(0), args.Error(1)
}
