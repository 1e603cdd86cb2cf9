package persistence

import (
	"context"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the items with the given IDs, skipping unknown ones
func (r *GormInventoryItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}
	var itemModels []models.InventoryItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("serial_number").Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toInventoryItems(itemModels), nil
}

// FindAll lists inventory items with filtering and pagination
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var itemModels []models.InventoryItemModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, InventoryItemSortFields)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&itemModels).Error
	if err != nil {
		return nil, 0, err
	}
	return toInventoryItems(itemModels), total, nil
}

// ExistsBySerialNumber checks whether a serial number is already registered
func (r *GormInventoryItemRepository) ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Where("serial_number = ?", serialNumber).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates an item. Order and invoice links are left to the
// assignment repository.
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item, itemSearchKey(item))
	return saveVersioned(r.db.WithContext(ctx), model, item.ID, item.Version, map[string]any{
		"active_number": model.ActiveNumber,
		"model_id":      model.ModelID,
		"status":        model.Status,
		"plate":         model.Plate,
		"comments":      model.Comments,
		"search_key":    model.SearchKey,
		"updated_at":    model.UpdatedAt,
	})
}

func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter inventory.ItemFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ModelID != nil {
		query = query.Where("model_id = ?", *filter.ModelID)
	}
	if filter.PurchaseOrderID != nil {
		query = query.Where("purchase_order_id = ?", *filter.PurchaseOrderID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.UnassignedOnly {
		query = query.Where("purchase_order_id IS NULL AND invoice_id IS NULL")
	}
	if term := FoldSearch(filter.Search); term != "" {
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, likePattern(term))
	}
	return query
}

func itemSearchKey(item *inventory.InventoryItem) string {
	return SearchKey(item.SerialNumber, item.ActiveNumber, item.Plate)
}

func toInventoryItems(itemModels []models.InventoryItemModel) []inventory.InventoryItem {
	items := make([]inventory.InventoryItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}
