package models

import (
	"time"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with a version for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot rebuilds a BaseAggregateRoot with no pending events
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// SoftDeleteModel is the logical-delete pair. gorm scopes every query on
// DeletedAt, so deleted rows are invisible unless Unscoped is used.
type SoftDeleteModel struct {
	Enabled   bool           `gorm:"not null;default:true"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FromDomainSoftDelete populates SoftDeleteModel from the domain state
func (m *SoftDeleteModel) FromDomainSoftDelete(s shared.SoftDelete) {
	m.Enabled = s.Enabled
	if s.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else {
		m.DeletedAt = gorm.DeletedAt{}
	}
}

// ToDomainSoftDelete converts SoftDeleteModel to the domain state
func (m *SoftDeleteModel) ToDomainSoftDelete() shared.SoftDelete {
	s := shared.SoftDelete{Enabled: m.Enabled}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		s.DeletedAt = &t
	}
	return s
}
