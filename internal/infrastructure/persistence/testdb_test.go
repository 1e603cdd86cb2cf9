package persistence

import (
	"context"
	"testing"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory sqlite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixtures struct {
	db    *gorm.DB
	model *inventory.VehicleModel
}

func newFixtures(t *testing.T, db *gorm.DB) *fixtures {
	t.Helper()
	vm, err := inventory.NewVehicleModel("Toyota", "Hilux", 2023)
	require.NoError(t, err)
	require.NoError(t, NewGormVehicleModelRepository(db).Save(context.Background(), vm))
	return &fixtures{db: db, model: vm}
}

func (f *fixtures) item(t *testing.T, serial string) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(serial, "ACT-"+serial, f.model.ID, inventory.StatusAlta)
	require.NoError(t, err)
	require.NoError(t, NewGormInventoryItemRepository(f.db).Save(context.Background(), item))
	return item
}

func (f *fixtures) order(t *testing.T, code string) *procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(code, "Acme Motors", nil, decimal.NewFromInt(1500))
	require.NoError(t, err)
	require.NoError(t, NewGormPurchaseOrderRepository(f.db).Save(context.Background(), order))
	return order
}

func (f *fixtures) invoice(t *testing.T, code string, orderID *uuid.UUID) *procurement.Invoice {
	t.Helper()
	invoice, err := procurement.NewInvoice(code, "Vehicles", decimal.NewFromInt(900), orderID)
	require.NoError(t, err)
	require.NoError(t, NewGormInvoiceRepository(f.db).Save(context.Background(), invoice))
	return invoice
}

// linkRaw sets item links directly, bypassing the classification rules
func (f *fixtures) linkRaw(t *testing.T, itemID uuid.UUID, orderID, invoiceID *uuid.UUID) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.InventoryItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]any{"purchase_order_id": orderID, "invoice_id": invoiceID}).Error)
}

func (f *fixtures) reload(t *testing.T, id uuid.UUID) *inventory.InventoryItem {
	t.Helper()
	item, err := NewGormInventoryItemRepository(f.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return item
}
