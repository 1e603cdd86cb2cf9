package persistence

import (
	"context"
	"fmt"

	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds a live invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists live invoices with filtering and pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter procurement.InvoiceFilter) ([]procurement.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.PurchaseOrderID != nil {
		query = query.Where("purchase_order_id = ?", *filter.PurchaseOrderID)
	}
	if filter.IndependentOnly {
		query = query.Where("purchase_order_id IS NULL")
	}
	if term := FoldSearch(filter.Search); term != "" {
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, likePattern(term))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceModel
	if err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, InvoiceSortFields)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]procurement.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

// ExistsByCode checks whether a live invoice uses the code
func (r *GormInvoiceRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *procurement.Invoice) error {
	return r.save(r.db.WithContext(ctx), invoice)
}

// save never rewrites purchase_order_id: the owner is fixed at creation and
// only cleared by the order's DeleteCascade.
func (r *GormInvoiceRepository) save(tx *gorm.DB, invoice *procurement.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	model.SearchKey = invoiceSearchKey(invoice)
	return saveVersioned(tx, model, invoice.ID, invoice.Version, map[string]any{
		"concept":    model.Concept,
		"amount":     model.Amount,
		"search_key": model.SearchKey,
		"enabled":    model.Enabled,
		"deleted_at": model.DeletedAt,
		"updated_at": model.UpdatedAt,
	})
}

func invoiceSearchKey(invoice *procurement.Invoice) string {
	return SearchKey(invoice.Code, invoice.Concept)
}

// DeleteCascade detaches the invoice's items and stores the logically deleted
// invoice in one transaction
func (r *GormInvoiceRepository) DeleteCascade(ctx context.Context, invoice *procurement.Invoice) (procurement.DetachResult, error) {
	var result procurement.DetachResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.InventoryItemModel{}).
			Where("invoice_id = ?", invoice.ID).
			Update("invoice_id", nil)
		if res.Error != nil {
			return fmt.Errorf("detach items: %w", res.Error)
		}
		result.Items = res.RowsAffected
		return r.save(tx, invoice)
	})
	if err != nil {
		return procurement.DetachResult{}, err
	}
	return result, nil
}
