package persistence

import (
	"errors"
	"strings"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saveVersioned inserts model when no row with id exists. Otherwise it writes
// the given columns while the stored version is older than version, so two
// writers that loaded the same row cannot both win.
func saveVersioned(tx *gorm.DB, model any, id uuid.UUID, version int, columns map[string]any) error {
	columns["version"] = version
	res := tx.Unscoped().Model(model).Where("id = ? AND version < ?", id, version).Updates(columns)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Unscoped().Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return translateError(tx.Create(model).Error)
}

// translateError maps unique violations to ErrAlreadyExists
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// isUniqueViolation catches drivers that do not translate errors for gorm
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value")
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
