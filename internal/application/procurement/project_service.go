// Package procurement manages projects, purchase orders and invoices.
package procurement

import (
	"context"

	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectService handles project operations
type ProjectService struct {
	projectRepo procurement.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo procurement.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	exists, err := s.projectRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("Project with this code already exists")
	}

	project, err := procurement.NewProject(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Project")
	}
	response := ToProjectResponse(project)
	return &response, nil
}

// List lists projects
func (s *ProjectService) List(ctx context.Context, filter ListFilter) ([]ProjectResponse, int64, error) {
	projects, total, err := s.projectRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses, total, nil
}
