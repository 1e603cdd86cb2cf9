package persistence

import (
	"context"

	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a live project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists live projects; Search matches code or name
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	if term := FoldSearch(filter.Search); term != "" {
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, likePattern(term))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProjectModel
	if err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, ProjectSortFields)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	projects := make([]procurement.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, total, nil
}

// ExistsByCode checks whether a live project uses the code
func (r *GormProjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *procurement.Project) error {
	model := models.ProjectModelFromDomain(project)
	model.SearchKey = SearchKey(project.Code, project.Name)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}
