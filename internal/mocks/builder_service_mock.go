// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

type MockBuilderService struct {
	mock.Mock
}

func (m *MockBuilderService) session(args mock.Arguments) (*model.BuilderSession, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuilderSession), args.Error(1)
}

func (m *MockBuilderService) Open(ctx context.Context, key model.SessionKey, seed *model.ProposedShipment) (*model.BuilderSession, error) {
	return m.session(m.Called(ctx, key, seed))
}

func (m *MockBuilderService) Get(ctx context.Context, key model.SessionKey) (*model.BuilderSession, error) {
	return m.session(m.Called(ctx, key))
}

func (m *MockBuilderService) AddPackage(ctx context.Context, key model.SessionKey, packageTypeID string) (*model.BuilderSession, error) {
	return m.session(m.Called(ctx, key, packageTypeID))
}

func (m *MockBuilderService) RemovePackage(ctx context.Context, key model.SessionKey, index int) (*model.BuilderSession, error) {
	return m.session(m.Called(ctx, key, index))
}

func (m *MockBuilderService) MoveItem(ctx context.Context, key model.SessionKey, itemKey string, from, to model.Container) (*model.BuilderSession, error) {
	return m.session(m.Called(ctx, key, itemKey, from, to))
}

func (m *MockBuilderService) Commit(ctx context.Context, key model.SessionKey) (*model.Shipment, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockBuilderService) Discard(ctx context.Context, key model.SessionKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
