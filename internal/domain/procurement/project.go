package procurement

import (
	"strings"
	"time"

	"github.com/fleet/backend/internal/domain/shared"
)

// Project groups purchase orders bought for the same operational program
type Project struct {
	shared.BaseEntity
	shared.SoftDelete
	Code string
	Name string
}

// NewProject creates a new live project
func NewProject(code, name string) (*Project, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_CODE", "Project code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_PROJECT_CODE", "Project code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}

	return &Project{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.Live(),
		Code:       code,
		Name:       name,
	}, nil
}

// Rename changes the project's display name
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}
