// Package identity administers back-office user accounts.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/fleet/backend/internal/domain/identity"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo: userRepo,
		events:   events,
		logger:   logger,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN STAFF VIEWER admin staff viewer"`
}

// UpdateUserInput contains input for updating a user. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

// ChangeRoleInput contains input for a role change
type ChangeRoleInput struct {
	Role string `json:"role" binding:"required,oneof=ADMIN STAFF VIEWER admin staff viewer"`
}

// UserListFilter represents filter options for user lists
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create creates a new user. The email must not be held by another live user.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	var role identity.Role
	if input.Role != "" {
		parsed, err := identity.ParseRole(input.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("Email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Name, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return toUserDTO(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List retrieves a page of live users
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserDTO, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = *toUserDTO(&users[i])
	}
	return dtos, total, nil
}

// Update renames a user and optionally resets the password
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := user.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// ChangeRole moves a user to another role
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, input ChangeRoleInput) (*UserDTO, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := user.Role
	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User role changed",
		zap.String("user_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(role)))

	return toUserDTO(user), nil
}

// Delete logically deletes a user. The email becomes free for a new account.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Delete(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, user)

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("User")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := event.PublishPending(ctx, s.events, user); err != nil {
		s.logger.Warn("failed to publish user events", zap.Error(err))
	}
}

// toUserDTO converts domain User to UserDTO
func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		Enabled:   user.Enabled,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
