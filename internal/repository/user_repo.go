// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"mapayl/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser inserts a new user. A taken email yields an error matching util.ErrDuplicateEntry.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id uuid.UUID) (*domain.User, error)
	// GetUserByIDForUpdate retrieves a user and locks the row; q should be a transaction.
	GetUserByIDForUpdate(ctx context.Context, q DBExecutor, id uuid.UUID) (*domain.User, error)
	// GetUserByEmail retrieves a user by their normalized email.
	GetUserByEmail(ctx context.Context, q DBExecutor, email string) (*domain.User, error)
	// UpdateUser writes every mutable column of user.
	UpdateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// ListUsers returns a page of users ordered by join date, newest first, and the total count.
	ListUsers(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.User, int64, error)
}
