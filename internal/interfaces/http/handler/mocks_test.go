package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	appassignment "github.com/fleet/backend/internal/application/assignment"
	cartapp "github.com/fleet/backend/internal/application/cart"
	identityapp "github.com/fleet/backend/internal/application/identity"
	inventoryapp "github.com/fleet/backend/internal/application/inventory"
	procurementapp "github.com/fleet/backend/internal/application/procurement"
	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/interfaces/http/dto"
	"github.com/fleet/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestEngine returns an engine with the request ID middleware the handlers rely on
func newTestEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData re-decodes the data member into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) result(args mock.Arguments) (*appassignment.ResultDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appassignment.ResultDTO), args.Error(1)
}

func (m *MockAssignmentService) unassignResult(args mock.Arguments) (*appassignment.UnassignResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appassignment.UnassignResult), args.Error(1)
}

func (m *MockAssignmentService) AssignToPurchaseOrder(ctx context.Context, orderID uuid.UUID, rawIDs []string) (*appassignment.ResultDTO, error) {
	return m.result(m.Called(ctx, orderID, rawIDs))
}

func (m *MockAssignmentService) AssignToInvoice(ctx context.Context, invoiceID uuid.UUID, rawIDs []string) (*appassignment.ResultDTO, error) {
	return m.result(m.Called(ctx, invoiceID, rawIDs))
}

func (m *MockAssignmentService) AssignToOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID, rawIDs []string) (*appassignment.ResultDTO, error) {
	return m.result(m.Called(ctx, orderID, invoiceID, rawIDs))
}

func (m *MockAssignmentService) Preview(ctx context.Context, req appassignment.PreviewRequest) (*appassignment.ResultDTO, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockAssignmentService) Unassign(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType) (*appassignment.UnassignResult, error) {
	return m.unassignResult(m.Called(ctx, itemID, slot))
}

func (m *MockAssignmentService) UnassignFromPurchaseOrder(ctx context.Context, orderID, itemID uuid.UUID) (*appassignment.UnassignResult, error) {
	return m.unassignResult(m.Called(ctx, orderID, itemID))
}

func (m *MockAssignmentService) UnassignFromInvoice(ctx context.Context, invoiceID, itemID uuid.UUID) (*appassignment.UnassignResult, error) {
	return m.unassignResult(m.Called(ctx, invoiceID, itemID))
}

func (m *MockAssignmentService) UnassignFromOrderInvoice(ctx context.Context, orderID, invoiceID, itemID uuid.UUID) (*appassignment.UnassignResult, error) {
	return m.unassignResult(m.Called(ctx, orderID, invoiceID, itemID))
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) project(args mock.Arguments) (*procurementapp.ProjectResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, req procurementapp.CreateProjectRequest) (*procurementapp.ProjectResponse, error) {
	return m.project(m.Called(ctx, req))
}

func (m *MockProjectService) GetByID(ctx context.Context, id uuid.UUID) (*procurementapp.ProjectResponse, error) {
	return m.project(m.Called(ctx, id))
}

func (m *MockProjectService) List(ctx context.Context, filter procurementapp.ListFilter) ([]procurementapp.ProjectResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]procurementapp.ProjectResponse), args.Get(1).(int64), args.Error(2)
}

type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) Create(ctx context.Context, req procurementapp.CreatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PurchaseOrderResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*procurementapp.PurchaseOrderDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PurchaseOrderDetailResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) List(ctx context.Context, filter procurementapp.OrderListFilter) ([]procurementapp.PurchaseOrderResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]procurementapp.PurchaseOrderResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req procurementapp.UpdatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PurchaseOrderResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) (*procurementapp.DeleteResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.DeleteResponse), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) invoice(args mock.Arguments) (*procurementapp.InvoiceResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, req procurementapp.CreateInvoiceRequest) (*procurementapp.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, req))
}

func (m *MockInvoiceService) CreateForOrder(ctx context.Context, orderID uuid.UUID, req procurementapp.CreateInvoiceRequest) (*procurementapp.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, orderID, req))
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*procurementapp.InvoiceDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.InvoiceDetailResponse), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, filter procurementapp.InvoiceListFilter) ([]procurementapp.InvoiceResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]procurementapp.InvoiceResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceService) ListForOrder(ctx context.Context, orderID uuid.UUID, filter procurementapp.InvoiceListFilter) ([]procurementapp.InvoiceResponse, int64, error) {
	args := m.Called(ctx, orderID, filter)
	return args.Get(0).([]procurementapp.InvoiceResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceService) Update(ctx context.Context, id uuid.UUID, req procurementapp.UpdateInvoiceRequest) (*procurementapp.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, id, req))
}

func (m *MockInvoiceService) Delete(ctx context.Context, id uuid.UUID) (*procurementapp.DeleteResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.DeleteResponse), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) item(args mock.Arguments) (*inventoryapp.ItemResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ItemResponse), args.Error(1)
}

func (m *MockInventoryService) Create(ctx context.Context, req inventoryapp.CreateItemRequest) (*inventoryapp.ItemResponse, error) {
	return m.item(m.Called(ctx, req))
}

func (m *MockInventoryService) GetByID(ctx context.Context, id uuid.UUID) (*inventoryapp.ItemResponse, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockInventoryService) List(ctx context.Context, filter inventoryapp.ItemListFilter) ([]inventoryapp.ItemResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventoryapp.ItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryService) Update(ctx context.Context, id uuid.UUID, req inventoryapp.UpdateItemRequest) (*inventoryapp.ItemResponse, error) {
	return m.item(m.Called(ctx, id, req))
}

func (m *MockInventoryService) ChangeStatus(ctx context.Context, id uuid.UUID, req inventoryapp.ChangeStatusRequest) (*inventoryapp.ItemResponse, error) {
	return m.item(m.Called(ctx, id, req))
}

type MockVehicleModelService struct {
	mock.Mock
}

func (m *MockVehicleModelService) Create(ctx context.Context, req inventoryapp.CreateVehicleModelRequest) (*inventoryapp.VehicleModelResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.VehicleModelResponse), args.Error(1)
}

func (m *MockVehicleModelService) List(ctx context.Context, filter inventoryapp.ModelListFilter) ([]inventoryapp.VehicleModelResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventoryapp.VehicleModelResponse), args.Get(1).(int64), args.Error(2)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*cartapp.CartResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) List(ctx context.Context, sessionID string) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID))
}

func (m *MockCartService) Add(ctx context.Context, sessionID string, req cartapp.AddItemsRequest) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) Remove(ctx context.Context, sessionID string, itemID uuid.UUID) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID, itemID))
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCartService) Preview(ctx context.Context, sessionID string, query cartapp.PreviewQuery) (*appassignment.ResultDTO, error) {
	args := m.Called(ctx, sessionID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appassignment.ResultDTO), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*identityapp.UserDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserDTO), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserDTO, error) {
	return m.user(m.Called(ctx, input))
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*identityapp.UserDTO, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) List(ctx context.Context, filter identityapp.UserListFilter) ([]identityapp.UserDTO, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identityapp.UserDTO), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, input identityapp.UpdateUserInput) (*identityapp.UserDTO, error) {
	return m.user(m.Called(ctx, id, input))
}

func (m *MockUserService) ChangeRole(ctx context.Context, id uuid.UUID, input identityapp.ChangeRoleInput) (*identityapp.UserDTO, error) {
	return m.user(m.Called(ctx, id, input))
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ AssignmentService    = (*MockAssignmentService)(nil)
	_ ProjectService       = (*MockProjectService)(nil)
	_ PurchaseOrderService = (*MockPurchaseOrderService)(nil)
	_ InvoiceService       = (*MockInvoiceService)(nil)
	_ InventoryService     = (*MockInventoryService)(nil)
	_ VehicleModelService  = (*MockVehicleModelService)(nil)
	_ CartService          = (*MockCartService)(nil)
	_ UserService          = (*MockUserService)(nil)
)
