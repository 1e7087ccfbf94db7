package repository

import (
	"context"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Create returns ErrConflict when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
