package assignment

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads item ownership and writes item links.
// Link implementations must be atomic: a slot is only written while it is
// still empty, and lost races surface as conflicts in the returned result.
type Repository interface {
	// LoadOwnership returns snapshots for the given item IDs; unknown IDs are skipped
	LoadOwnership(ctx context.Context, itemIDs []uuid.UUID) ([]Ownership, error)

	// Link writes target into the slot of every available item in result and
	// returns the reconciled result
	Link(ctx context.Context, result Result) (Result, error)

	// Unlink clears one slot of one item. When owner is non-nil the slot is
	// only cleared if it currently points at owner. Reports whether a row changed.
	Unlink(ctx context.Context, itemID uuid.UUID, slot TargetType, owner *uuid.UUID) (bool, error)

	// FindInconsistent returns items holding both links where the invoice does
	// not belong to the linked order
	FindInconsistent(ctx context.Context, limit int) ([]Ownership, error)
}
