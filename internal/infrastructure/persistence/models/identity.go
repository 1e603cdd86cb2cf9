package models

import (
	"github.com/fleet/backend/internal/domain/identity"
)

// UserModel is the persistence model for users.
// Email is unique among live users only, so a deleted account frees its address.
type UserModel struct {
	AggregateModel
	SoftDeleteModel
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email_live,where:deleted_at IS NULL"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'VIEWER'"`
	PasswordHash string        `gorm:"type:varchar(100);not null"`
	SearchKey    string        `gorm:"type:varchar(400);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SoftDelete:        m.ToDomainSoftDelete(),
		Email:             m.Email,
		Name:              m.Name,
		Role:              m.Role,
		PasswordHash:      m.PasswordHash,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.FromDomainSoftDelete(u.SoftDelete)
	return m
}
