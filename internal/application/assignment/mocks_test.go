package assignment

import (
	"context"
	"sync"

	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range m.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// MockAssignmentRepository is a mock implementation of assignment.Repository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) LoadOwnership(ctx context.Context, itemIDs []uuid.UUID) ([]assignment.Ownership, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assignment.Ownership), args.Error(1)
}

func (m *MockAssignmentRepository) Link(ctx context.Context, result assignment.Result) (assignment.Result, error) {
	args := m.Called(ctx, result)
	if fn, ok := args.Get(0).(func(context.Context, assignment.Result) assignment.Result); ok {
		return fn(ctx, result), args.Error(1)
	}
	return args.Get(0).(assignment.Result), args.Error(1)
}

func (m *MockAssignmentRepository) Unlink(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType, owner *uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID, slot, owner)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) FindInconsistent(ctx context.Context, limit int) ([]assignment.Ownership, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]assignment.Ownership), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of procurement.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByCode(ctx context.Context, code string) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter procurement.OrderFilter) ([]procurement.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]procurement.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockPurchaseOrderRepository) DeleteCascade(ctx context.Context, order *procurement.PurchaseOrder) (procurement.DetachResult, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(procurement.DetachResult), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of procurement.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter procurement.InvoiceFilter) ([]procurement.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]procurement.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *procurement.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) DeleteCascade(ctx context.Context, invoice *procurement.Invoice) (procurement.DetachResult, error) {
	args := m.Called(ctx, invoice)
	return args.Get(0).(procurement.DetachResult), args.Error(1)
}

// MockInventoryItemRepository is a mock implementation of inventory.InventoryItemRepository
type MockInventoryItemRepository struct {
	mock.Mock
}

func (m *MockInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryItemRepository) ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error) {
	args := m.Called(ctx, serialNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}
