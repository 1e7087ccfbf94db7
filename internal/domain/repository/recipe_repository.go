package repository

import (
	"context"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
)

// RecipeFilter scopes a listing. When IngredientIDs is set only recipes
// linked to at least one of them are returned.
type RecipeFilter struct {
	UserID        string
	IngredientIDs []string
}

// RecipeRepository persists recipes together with their ingredient links.
// Create and Update write the links from Recipe.Ingredients (ids only).
type RecipeRepository interface {
	Create(ctx context.Context, r *entity.Recipe) error
	GetByID(ctx context.Context, userID, id string) (*entity.Recipe, error)
	List(ctx context.Context, f RecipeFilter) ([]entity.Recipe, error)
	Update(ctx context.Context, r *entity.Recipe) error
	Delete(ctx context.Context, userID, id string) error
}
