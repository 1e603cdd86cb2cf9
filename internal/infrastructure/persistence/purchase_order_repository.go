package persistence

import (
	"context"
	"fmt"

	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a live purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a live purchase order by its code
func (r *GormPurchaseOrderRepository) FindByCode(ctx context.Context, code string) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists live purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter procurement.OrderFilter) ([]procurement.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.IndependentOnly {
		query = query.Where("project_id IS NULL")
	}
	if term := FoldSearch(filter.Search); term != "" {
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, likePattern(term))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseOrderModel
	if err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, PurchaseOrderSortFields)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]procurement.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// ExistsByCode checks whether a live purchase order uses the code
func (r *GormPurchaseOrderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.save(r.db.WithContext(ctx), order)
}

func (r *GormPurchaseOrderRepository) save(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(order)
	model.SearchKey = orderSearchKey(order)
	return saveVersioned(tx, model, order.ID, order.Version, map[string]any{
		"supplier":   model.Supplier,
		"search_key": model.SearchKey,
		"project_id": model.ProjectID,
		"amount":     model.Amount,
		"notes":      model.Notes,
		"enabled":    model.Enabled,
		"deleted_at": model.DeletedAt,
		"updated_at": model.UpdatedAt,
	})
}

// DeleteCascade detaches the order from its invoices, then from its items, and
// finally stores the logically deleted order. Either all three happen or none.
// Detached invoices get a new version so saves from older snapshots conflict.
func (r *GormPurchaseOrderRepository) DeleteCascade(ctx context.Context, order *procurement.PurchaseOrder) (procurement.DetachResult, error) {
	var result procurement.DetachResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.InvoiceModel{}).
			Where("purchase_order_id = ?", order.ID).
			Updates(map[string]any{"purchase_order_id": nil, "version": gorm.Expr("version + 1")})
		if res.Error != nil {
			return fmt.Errorf("detach invoices: %w", res.Error)
		}
		result.Invoices = res.RowsAffected

		res = tx.Model(&models.InventoryItemModel{}).
			Where("purchase_order_id = ?", order.ID).
			Update("purchase_order_id", nil)
		if res.Error != nil {
			return fmt.Errorf("detach items: %w", res.Error)
		}
		result.Items = res.RowsAffected

		return r.save(tx, order)
	})
	if err != nil {
		return procurement.DetachResult{}, err
	}
	return result, nil
}

func orderSearchKey(order *procurement.PurchaseOrder) string {
	return SearchKey(order.Code, order.Supplier)
}
