package identity

import (
	"context"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines persistence for users. Deleted users are invisible to finders.
type UserRepository interface {
	// FindByID finds a live user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds the live user holding an email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll lists live users and returns the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)

	// ExistsByEmail checks whether a live user holds the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
