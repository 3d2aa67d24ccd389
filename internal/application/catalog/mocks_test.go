package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/inventory"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, storeID uuid.UUID, name string) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, storeID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, storeID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindDeviceOwners(ctx context.Context, storeID uuid.UUID, canonicalIDs []string) (map[string]string, error) {
	args := m.Called(ctx, storeID, canonicalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*sales.SaleRecord, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) FindByGroupID(ctx context.Context, storeID, saleGroupID uuid.UUID) ([]sales.SaleRecord, error) {
	args := m.Called(ctx, storeID, saleGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) FindByDeviceFragment(ctx context.Context, storeID uuid.UUID, fragment string) ([]sales.SaleRecord, error) {
	args := m.Called(ctx, storeID, fragment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) SoldDeviceIDs(ctx context.Context, storeID uuid.UUID) (map[string]struct{}, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

// MockCounterRepository is a mock implementation of inventory.CounterRepository
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.Counter, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Counter), args.Error(1)
}

func (m *MockCounterRepository) Save(ctx context.Context, counter *inventory.Counter) error {
	args := m.Called(ctx, counter)
	return args.Error(0)
}

func (m *MockCounterRepository) Delete(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
