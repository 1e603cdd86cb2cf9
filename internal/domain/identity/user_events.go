package identity

import (
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserCreated = "UserCreated"
	EventTypeUserDeleted = "UserDeleted"
)

// UserCreatedEvent is raised when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserDeletedEvent is raised when a user is logically deleted
type UserDeletedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserDeletedEvent creates a new UserDeletedEvent
func NewUserDeletedEvent(u *User) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeleted, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		Email:           u.Email,
	}
}
