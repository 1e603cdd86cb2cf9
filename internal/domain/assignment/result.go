package assignment

import (
	"fmt"
	"strings"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrAssignmentConflict is the sentinel wrapped by ConflictError
var ErrAssignmentConflict = shared.NewDomainError("ASSIGNMENT_CONFLICT", "Some items are assigned elsewhere")

// Result partitions a batch of items against one target
type Result struct {
	Target          Target
	Available       []Ownership
	AlreadyAssigned []Ownership
	Unavailable     []Conflict
	// Missing holds requested IDs that matched no item
	Missing []uuid.UUID
}

// Partition classifies every snapshot against target. requested gives the
// caller's order and is used to report IDs with no snapshot; duplicates are
// collapsed.
func Partition(requested []uuid.UUID, items []Ownership, target Target) Result {
	byID := make(map[uuid.UUID]Ownership, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}

	result := Result{Target: target}
	seen := make(map[uuid.UUID]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		item, ok := byID[id]
		if !ok {
			result.Missing = append(result.Missing, id)
			continue
		}
		result.add(item, Classify(item, target))
	}
	return result
}

func (r *Result) add(item Ownership, d Decision) {
	switch d.Classification {
	case Available:
		r.Available = append(r.Available, item)
	case AlreadyAssigned:
		r.AlreadyAssigned = append(r.AlreadyAssigned, item)
	default:
		c := Conflict{ItemID: item.ItemID, SerialNumber: item.SerialNumber}
		if d.Conflict != nil {
			c = *d.Conflict
		}
		r.Unavailable = append(r.Unavailable, c)
	}
}

// AvailableIDs returns the IDs of the items that will be written
func (r Result) AvailableIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Available))
	for i, item := range r.Available {
		ids[i] = item.ItemID
	}
	return ids
}

// HasConflicts reports whether any item is held by another owner
func (r Result) HasConflicts() bool {
	return len(r.Unavailable) > 0
}

// ConflictCodes returns the distinct owner codes of unavailable items in first-seen order
func (r Result) ConflictCodes() []string {
	codes := make([]string, 0, len(r.Unavailable))
	seen := make(map[string]struct{}, len(r.Unavailable))
	for _, c := range r.Unavailable {
		if _, ok := seen[c.OwnerCode]; ok {
			continue
		}
		seen[c.OwnerCode] = struct{}{}
		codes = append(codes, c.OwnerCode)
	}
	return codes
}

// ConflictError reports a partially rejected batch. The items in
// Result.Available were persisted; the ones in Result.Unavailable were not.
type ConflictError struct {
	Result Result
}

// NewConflictError wraps a result that has unavailable items
func NewConflictError(result Result) *ConflictError {
	return &ConflictError{Result: result}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d item(s) already assigned to: %s",
		len(e.Result.Unavailable), strings.Join(e.Result.ConflictCodes(), ", "))
}

// Unwrap exposes ErrAssignmentConflict to errors.Is
func (e *ConflictError) Unwrap() error {
	return ErrAssignmentConflict
}

// Codes returns the distinct conflicting owner codes
func (e *ConflictError) Codes() []string {
	return e.Result.ConflictCodes()
}
