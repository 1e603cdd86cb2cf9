package handler

import (
	"net/http"
	"testing"

	procurementapp "github.com/fleet/backend/internal/application/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type procurementMocks struct {
	projects *MockProjectService
	orders   *MockPurchaseOrderService
	invoices *MockInvoiceService
}

func setupProcurementHandler() (*gin.Engine, procurementMocks) {
	m := procurementMocks{
		projects: new(MockProjectService),
		orders:   new(MockPurchaseOrderService),
		invoices: new(MockInvoiceService),
	}
	h := NewProcurementHandler(m.projects, m.orders, m.invoices)
	engine := newTestEngine()
	engine.POST("/projects", h.CreateProject)
	engine.GET("/projects", h.ListProjects)
	engine.GET("/projects/:id", h.GetProject)
	engine.POST("/purchase-orders", h.CreatePurchaseOrder)
	engine.GET("/purchase-orders", h.ListPurchaseOrders)
	engine.GET("/purchase-orders/:id", h.GetPurchaseOrder)
	engine.PUT("/purchase-orders/:id", h.UpdatePurchaseOrder)
	engine.DELETE("/purchase-orders/:id", h.DeletePurchaseOrder)
	engine.POST("/purchase-orders/:id/invoices", h.CreateOrderInvoice)
	engine.GET("/purchase-orders/:id/invoices", h.ListOrderInvoices)
	engine.POST("/invoices", h.CreateInvoice)
	engine.GET("/invoices", h.ListInvoices)
	engine.GET("/invoices/:id", h.GetInvoice)
	engine.PUT("/invoices/:id", h.UpdateInvoice)
	engine.DELETE("/invoices/:id", h.DeleteInvoice)
	return engine, m
}

func TestProcurementHandler_Projects(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		req := procurementapp.CreateProjectRequest{Code: "P-1", Name: "Fleet renewal"}
		m.projects.On("Create", mock.Anything, req).
			Return(&procurementapp.ProjectResponse{ID: uuid.New(), Code: "P-1", Name: "Fleet renewal", Enabled: true}, nil)

		w := doJSON(t, engine, http.MethodPost, "/projects", req)
		assert.Equal(t, http.StatusCreated, w.Code)
		var got procurementapp.ProjectResponse
		decodeData(t, w, &got)
		assert.Equal(t, "P-1", got.Code)
	})

	t.Run("duplicate code", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.projects.On("Create", mock.Anything, mock.Anything).Return(nil, shared.AlreadyExists("project code P-1 already exists"))

		w := doJSON(t, engine, http.MethodPost, "/projects", map[string]string{"code": "P-1", "name": "x"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list with meta", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.projects.On("List", mock.Anything, procurementapp.ListFilter{Search: "fleet", Page: 2, PageSize: 5}).
			Return([]procurementapp.ProjectResponse{{Code: "P-6"}}, int64(6), nil)

		w := doJSON(t, engine, http.MethodGet, "/projects?search=fleet&page=2&page_size=5", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(6), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 5, resp.Meta.PageSize)
	})

	t.Run("page size over the cap", func(t *testing.T) {
		engine, _ := setupProcurementHandler()
		w := doJSON(t, engine, http.MethodGet, "/projects?page_size=1000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProcurementHandler_PurchaseOrders(t *testing.T) {
	orderID := uuid.New()

	t.Run("create", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.orders.On("Create", mock.Anything, mock.MatchedBy(func(r procurementapp.CreatePurchaseOrderRequest) bool {
			return r.Code == "PO-1" && r.Supplier == "ACME" && r.Amount.Equal(decimal.RequireFromString("1200.50"))
		})).Return(&procurementapp.PurchaseOrderResponse{ID: orderID, Code: "PO-1", Independent: true}, nil)

		w := doJSON(t, engine, http.MethodPost, "/purchase-orders", map[string]any{
			"code": "PO-1", "supplier": "ACME", "amount": "1200.50",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		m.orders.AssertExpectations(t)
	})

	t.Run("create requires supplier", func(t *testing.T) {
		engine, _ := setupProcurementHandler()
		w := doJSON(t, engine, http.MethodPost, "/purchase-orders", map[string]any{"code": "PO-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("get detail", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		detail := &procurementapp.PurchaseOrderDetailResponse{
			PurchaseOrderResponse: procurementapp.PurchaseOrderResponse{ID: orderID, Code: "PO-1"},
			Items:                 []procurementapp.ItemSummary{{ID: uuid.New(), SerialNumber: "SN-1"}},
			ItemsTotal:            1,
		}
		m.orders.On("GetByID", mock.Anything, orderID).Return(detail, nil)

		w := doJSON(t, engine, http.MethodGet, "/purchase-orders/"+orderID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var got procurementapp.PurchaseOrderDetailResponse
		decodeData(t, w, &got)
		assert.Equal(t, int64(1), got.ItemsTotal)
		assert.Equal(t, "PO-1", got.Code)
	})

	t.Run("get unknown", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.orders.On("GetByID", mock.Anything, orderID).Return(nil, shared.NotFound("Purchase order"))

		w := doJSON(t, engine, http.MethodGet, "/purchase-orders/"+orderID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update stale version", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.orders.On("Update", mock.Anything, orderID, mock.Anything).Return(nil, shared.ErrConcurrencyConflict)

		w := doJSON(t, engine, http.MethodPut, "/purchase-orders/"+orderID.String(), map[string]any{"supplier": "ACME"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete reports detached links", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.orders.On("Delete", mock.Anything, orderID).Return(&procurementapp.DeleteResponse{
			ID: orderID, Code: "PO-1", DetachedInvoices: 2, DetachedItems: 7,
		}, nil)

		w := doJSON(t, engine, http.MethodDelete, "/purchase-orders/"+orderID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var got procurementapp.DeleteResponse
		decodeData(t, w, &got)
		assert.Equal(t, int64(2), got.DetachedInvoices)
		assert.Equal(t, int64(7), got.DetachedItems)
	})

	t.Run("list", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.orders.On("List", mock.Anything, mock.MatchedBy(func(f procurementapp.OrderListFilter) bool {
			return f.IndependentOnly
		})).Return([]procurementapp.PurchaseOrderResponse{}, int64(0), nil)

		w := doJSON(t, engine, http.MethodGet, "/purchase-orders?independent=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, dto.DefaultPageSize, resp.Meta.PageSize)
	})
}

func TestProcurementHandler_Invoices(t *testing.T) {
	orderID, invoiceID := uuid.New(), uuid.New()

	t.Run("create independent", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.invoices.On("Create", mock.Anything, mock.MatchedBy(func(r procurementapp.CreateInvoiceRequest) bool {
			return r.Code == "F-1" && r.PurchaseOrderID == nil
		})).Return(&procurementapp.InvoiceResponse{ID: invoiceID, Code: "F-1", Independent: true}, nil)

		w := doJSON(t, engine, http.MethodPost, "/invoices", map[string]any{"code": "F-1"})
		assert.Equal(t, http.StatusCreated, w.Code)
		var got procurementapp.InvoiceResponse
		decodeData(t, w, &got)
		assert.True(t, got.Independent)
	})

	t.Run("create under order", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.invoices.On("CreateForOrder", mock.Anything, orderID, mock.Anything).
			Return(&procurementapp.InvoiceResponse{ID: invoiceID, Code: "F-2", PurchaseOrderID: &orderID}, nil)

		w := doJSON(t, engine, http.MethodPost, "/purchase-orders/"+orderID.String()+"/invoices", map[string]any{"code": "F-2"})
		assert.Equal(t, http.StatusCreated, w.Code)
		m.invoices.AssertExpectations(t)
	})

	t.Run("list under order", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.invoices.On("ListForOrder", mock.Anything, orderID, mock.Anything).
			Return([]procurementapp.InvoiceResponse{{Code: "F-2"}}, int64(1), nil)

		w := doJSON(t, engine, http.MethodGet, "/purchase-orders/"+orderID.String()+"/invoices", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("get, update and delete", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.invoices.On("GetByID", mock.Anything, invoiceID).Return(&procurementapp.InvoiceDetailResponse{
			InvoiceResponse: procurementapp.InvoiceResponse{ID: invoiceID, Code: "F-1"},
		}, nil)
		m.invoices.On("Update", mock.Anything, invoiceID, mock.Anything).
			Return(&procurementapp.InvoiceResponse{ID: invoiceID, Concept: "Leasing"}, nil)
		m.invoices.On("Delete", mock.Anything, invoiceID).
			Return(&procurementapp.DeleteResponse{ID: invoiceID, DetachedItems: 3}, nil)

		assert.Equal(t, http.StatusOK, doJSON(t, engine, http.MethodGet, "/invoices/"+invoiceID.String(), nil).Code)
		assert.Equal(t, http.StatusOK, doJSON(t, engine, http.MethodPut, "/invoices/"+invoiceID.String(),
			map[string]any{"concept": "Leasing"}).Code)
		assert.Equal(t, http.StatusOK, doJSON(t, engine, http.MethodDelete, "/invoices/"+invoiceID.String(), nil).Code)
		m.invoices.AssertExpectations(t)
	})

	t.Run("list", func(t *testing.T) {
		engine, m := setupProcurementHandler()
		m.invoices.On("List", mock.Anything, mock.Anything).Return([]procurementapp.InvoiceResponse{}, int64(0), nil)
		w := doJSON(t, engine, http.MethodGet, "/invoices", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
