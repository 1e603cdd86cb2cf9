package assignment

import (
	"context"
	"errors"
	"testing"

	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	svc         *AssignmentService
	assignments *MockAssignmentRepository
	orders      *MockPurchaseOrderRepository
	invoices    *MockInvoiceRepository
	items       *MockInventoryItemRepository
	events      *MockEventPublisher
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		assignments: new(MockAssignmentRepository),
		orders:      new(MockPurchaseOrderRepository),
		invoices:    new(MockInvoiceRepository),
		items:       new(MockInventoryItemRepository),
		events:      &MockEventPublisher{},
	}
	f.svc = NewAssignmentService(f.assignments, f.orders, f.invoices, f.items, f.events, zap.NewNop())
	f.svc.SetMetrics(telemetry.NewMetrics())
	return f
}

func newOrder(t *testing.T, code string) *procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(code, "Acme Motors", nil, decimal.NewFromInt(1000))
	require.NoError(t, err)
	return order
}

func newInvoice(t *testing.T, code string, orderID *uuid.UUID) *procurement.Invoice {
	t.Helper()
	invoice, err := procurement.NewInvoice(code, "Vehicles", decimal.NewFromInt(500), orderID)
	require.NoError(t, err)
	return invoice
}

func strs(ids ...uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestAssignToPurchaseOrder_MixedBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	po1 := newOrder(t, "PO-1")
	po2 := newOrder(t, "PO-2")
	free := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "XYZ789"}
	taken := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "ABC123",
		PurchaseOrder: &assignment.Link{ID: po1.ID, Code: "PO-1"}}
	already := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "DEF456",
		PurchaseOrder: &assignment.Link{ID: po2.ID, Code: "PO-2"}}
	unknown := uuid.New()
	requested := []uuid.UUID{free.ItemID, taken.ItemID, already.ItemID, unknown}

	f.orders.On("FindByID", ctx, po2.ID).Return(po2, nil)
	f.assignments.On("LoadOwnership", mock.Anything, requested).
		Return([]assignment.Ownership{free, taken, already}, nil)
	f.assignments.On("Link", mock.Anything, mock.MatchedBy(func(r assignment.Result) bool {
		return len(r.Available) == 1 && r.Available[0].ItemID == free.ItemID
	})).Return(func(ctx context.Context, r assignment.Result) assignment.Result { return r }, nil)

	dto, err := f.svc.AssignToPurchaseOrder(ctx, po2.ID, append(strs(requested...), free.ItemID.String()))

	var conflict *assignment.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, assignment.ErrAssignmentConflict)
	assert.Equal(t, []string{"PO-1"}, conflict.Codes())

	require.NotNil(t, dto)
	assert.Equal(t, "PO-2", dto.TargetCode)
	assert.Equal(t, []ItemRef{{ID: free.ItemID, SerialNumber: "XYZ789"}}, dto.Available)
	assert.Equal(t, []ItemRef{{ID: already.ItemID, SerialNumber: "DEF456"}}, dto.AlreadyAssigned)
	require.Len(t, dto.Unavailable, 1)
	assert.Equal(t, "ABC123", dto.Unavailable[0].SerialNumber)
	assert.Equal(t, assignment.TargetPurchaseOrder, dto.Unavailable[0].OwnerType)
	assert.Equal(t, []uuid.UUID{unknown}, dto.Missing)
	assert.Equal(t, []string{"PO-1"}, dto.Conflicts)

	assigned := f.events.GetEventsByType(inventory.EventTypeInventoryAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, "PO-2", assigned[0].(*inventory.InventoryAssignedEvent).TargetCode)
	f.assignments.AssertExpectations(t)
}

func TestAssignToPurchaseOrder_AllAlreadyAssignedSkipsWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := newOrder(t, "PO-7")
	item := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "S1",
		PurchaseOrder: &assignment.Link{ID: order.ID, Code: "PO-7"}}

	f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	f.assignments.On("LoadOwnership", mock.Anything, []uuid.UUID{item.ItemID}).
		Return([]assignment.Ownership{item}, nil)

	dto, err := f.svc.AssignToPurchaseOrder(ctx, order.ID, strs(item.ItemID))
	require.NoError(t, err)
	assert.Len(t, dto.AlreadyAssigned, 1)
	assert.Empty(t, dto.Available)
	f.assignments.AssertNotCalled(t, "Link", mock.Anything, mock.Anything)
}

func TestAssignToPurchaseOrder_TargetMissingFailsBeforeReads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := uuid.New()
	f.orders.On("FindByID", ctx, orderID).Return(nil, shared.ErrNotFound)

	dto, err := f.svc.AssignToPurchaseOrder(ctx, orderID, strs(uuid.New()))
	assert.Nil(t, dto)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "Purchase order")
	f.assignments.AssertNotCalled(t, "LoadOwnership", mock.Anything, mock.Anything)
}

func TestAssign_InvalidInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AssignToInvoice(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.svc.AssignToInvoice(ctx, uuid.New(), []string{"not-a-uuid"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Contains(t, err.Error(), "not-a-uuid")

	f.invoices.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAssign_LinkErrorPropagates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := newOrder(t, "PO-9")
	item := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "S9"}

	f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	f.assignments.On("LoadOwnership", mock.Anything, []uuid.UUID{item.ItemID}).
		Return([]assignment.Ownership{item}, nil)
	f.assignments.On("Link", mock.Anything, mock.Anything).
		Return(assignment.Result{}, shared.ErrConcurrencyConflict)

	_, err := f.svc.AssignToPurchaseOrder(ctx, order.ID, strs(item.ItemID))
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Empty(t, f.events.GetEventsByType(inventory.EventTypeInventoryAssigned))
}

func TestAssignToOrderInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("invoice of another order is not found", func(t *testing.T) {
		f := newFixture()
		order := newOrder(t, "OC-100")
		otherID := uuid.New()
		invoice := newInvoice(t, "FAC-200", &otherID)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

		_, err := f.svc.AssignToOrderInvoice(ctx, order.ID, invoice.ID, strs(uuid.New()))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("item on the order takes the order's invoice", func(t *testing.T) {
		f := newFixture()
		order := newOrder(t, "OC-100")
		invoice := newInvoice(t, "FAC-200", &order.ID)
		item := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "S1",
			PurchaseOrder: &assignment.Link{ID: order.ID, Code: "OC-100"}}
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		f.assignments.On("LoadOwnership", mock.Anything, []uuid.UUID{item.ItemID}).
			Return([]assignment.Ownership{item}, nil)
		f.assignments.On("Link", mock.Anything, mock.MatchedBy(func(r assignment.Result) bool {
			return r.Target.Type == assignment.TargetInvoice && len(r.Available) == 1
		})).Return(func(ctx context.Context, r assignment.Result) assignment.Result { return r }, nil)

		dto, err := f.svc.AssignToOrderInvoice(ctx, order.ID, invoice.ID, strs(item.ItemID))
		require.NoError(t, err)
		assert.Equal(t, "FAC-200", dto.TargetCode)
		assert.Len(t, dto.Available, 1)
	})
}

func TestPreview_DoesNotWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	otherID := uuid.New()
	invoice := newInvoice(t, "FAC-1", nil)
	item := assignment.Ownership{ItemID: uuid.New(), SerialNumber: "S1",
		PurchaseOrder: &assignment.Link{ID: otherID, Code: "PO-5"}}

	f.invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	f.assignments.On("LoadOwnership", ctx, []uuid.UUID{item.ItemID}).
		Return([]assignment.Ownership{item}, nil)

	dto, err := f.svc.Preview(ctx, PreviewRequest{
		TargetType:   "invoice",
		TargetID:     invoice.ID.String(),
		InventoryIDs: strs(item.ItemID),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PO-5"}, dto.Conflicts)
	f.assignments.AssertNotCalled(t, "Link", mock.Anything, mock.Anything)

	_, err = f.svc.Preview(ctx, PreviewRequest{TargetType: "shipment", TargetID: invoice.ID.String(), InventoryIDs: strs(item.ItemID)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUnassign(t *testing.T) {
	ctx := context.Background()

	newItem := func(t *testing.T) *inventory.InventoryItem {
		item, err := inventory.NewInventoryItem("ABC123", "A-1", uuid.New(), inventory.StatusAlta)
		require.NoError(t, err)
		return item
	}

	t.Run("bare unassign of an empty slot succeeds", func(t *testing.T) {
		f := newFixture()
		item := newItem(t)
		f.items.On("FindByID", ctx, item.ID).Return(item, nil)
		f.assignments.On("Unlink", ctx, item.ID, assignment.TargetInvoice, (*uuid.UUID)(nil)).Return(false, nil)

		res, err := f.svc.Unassign(ctx, item.ID, assignment.TargetInvoice)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Empty(t, f.events.GetEventsByType(inventory.EventTypeInventoryUnassigned))
	})

	t.Run("clears only the requested slot", func(t *testing.T) {
		f := newFixture()
		item := newItem(t)
		order := newOrder(t, "PO-1")
		invoice := newInvoice(t, "FAC-1", &order.ID)
		item.PurchaseOrderID = &order.ID
		item.InvoiceID = &invoice.ID

		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.items.On("FindByID", ctx, item.ID).Return(item, nil)
		f.assignments.On("Unlink", ctx, item.ID, assignment.TargetPurchaseOrder, &order.ID).Return(true, nil)

		res, err := f.svc.UnassignFromPurchaseOrder(ctx, order.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Nil(t, res.PurchaseOrderID)
		assert.Equal(t, &invoice.ID, res.InvoiceID)

		events := f.events.GetEventsByType(inventory.EventTypeInventoryUnassigned)
		require.Len(t, events, 1)
		assert.Equal(t, order.ID, events[0].(*inventory.InventoryUnassignedEvent).TargetID)
	})

	t.Run("item not held by the route's invoice is not found", func(t *testing.T) {
		f := newFixture()
		item := newItem(t)
		invoice := newInvoice(t, "FAC-2", nil)
		f.invoices.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		f.items.On("FindByID", ctx, item.ID).Return(item, nil)
		f.assignments.On("Unlink", ctx, item.ID, assignment.TargetInvoice, &invoice.ID).Return(false, nil)

		_, err := f.svc.UnassignFromInvoice(ctx, invoice.ID, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.items.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Unassign(ctx, id, assignment.TargetPurchaseOrder)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestParseItemIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := ParseItemIDs([]string{a.String(), " " + b.String() + " ", a.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, err = ParseItemIDs([]string{uuid.Nil.String()})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	tooMany := make([]string, MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = uuid.NewString()
	}
	_, err = ParseItemIDs(tooMany)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
