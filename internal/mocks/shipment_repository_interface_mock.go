// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

type MockShipmentRepositoryInterface struct {
	mock.Mock
}

func (m *MockShipmentRepositoryInterface) Save(ctx context.Context, shipment *model.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepositoryInterface) FindByID(ctx context.Context, id string) (*model.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentRepositoryInterface) FindByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Shipment), args.Error(1)
}

func (m *MockShipmentRepositoryInterface) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
