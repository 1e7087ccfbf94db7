package repository

import (
	"context"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
)

// IngredientFilter scopes a listing. UserID is mandatory.
type IngredientFilter struct {
	UserID string
	// AssignedOnly keeps ingredients linked to at least one recipe of any owner.
	AssignedOnly bool
}

// IngredientRepository persists ingredients. Every lookup is owner scoped:
// an ingredient owned by someone else is reported as ErrNotFound.
type IngredientRepository interface {
	// List returns ingredients ordered by name descending, each at most once.
	List(ctx context.Context, f IngredientFilter) ([]entity.Ingredient, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Ingredient, error)
	// GetOrCreate returns the owner's ingredient with the given name, creating it
	// when missing. created reports whether a new row was inserted.
	GetOrCreate(ctx context.Context, userID, name string) (in *entity.Ingredient, created bool, err error)
	Update(ctx context.Context, in *entity.Ingredient) error
	Delete(ctx context.Context, userID, id string) error
}
