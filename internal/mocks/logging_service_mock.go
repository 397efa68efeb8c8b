// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

type MockLoggingService struct {
	mock.Mock
}

func (m *MockLoggingService) Record(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) RecordBatch(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) page(args mock.Arguments) (*model.LogPage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogPage), args.Error(1)
}

func (m *MockLoggingService) Search(ctx context.Context, opts model.LogQueryOptions) (*model.LogPage, error) {
	return m.page(m.Called(ctx, opts))
}

func (m *MockLoggingService) ShipmentHistory(ctx context.Context, shipmentID string, limit, skip int) (*model.LogPage, error) {
	return m.page(m.Called(ctx, shipmentID, limit, skip))
}
