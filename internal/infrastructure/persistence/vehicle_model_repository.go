package persistence

import (
	"context"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVehicleModelRepository implements VehicleModelRepository using GORM
type GormVehicleModelRepository struct {
	db *gorm.DB
}

// NewGormVehicleModelRepository creates a new GormVehicleModelRepository
func NewGormVehicleModelRepository(db *gorm.DB) *GormVehicleModelRepository {
	return &GormVehicleModelRepository{db: db}
}

// FindByID finds a vehicle model by its ID
func (r *GormVehicleModelRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.VehicleModel, error) {
	var model models.VehicleModelModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists vehicle models; Search matches brand or name
func (r *GormVehicleModelRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.VehicleModel, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.VehicleModelModel{})
	if term := FoldSearch(filter.Search); term != "" {
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, likePattern(term))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.VehicleModelModel
	if err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, VehicleModelSortFields)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]inventory.VehicleModel, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, total, nil
}

// Save creates or updates a vehicle model
func (r *GormVehicleModelRepository) Save(ctx context.Context, vm *inventory.VehicleModel) error {
	model := models.VehicleModelModelFromDomain(vm)
	model.SearchKey = SearchKey(vm.Brand, vm.Name)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}
