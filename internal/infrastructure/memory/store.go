// Package memory provides map-backed repositories used for local runs
// (STORAGE_DRIVER=memory) and tests. All repositories built from one Store
// share its tables, so recipe links see ingredient deletes.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
)

type recipeRow struct {
	recipe entity.Recipe
	seq    int64
}

// Store holds the tables. The zero value is not usable; call NewStore.
type Store struct {
	mu          sync.RWMutex
	seq         int64
	users       map[string]entity.User
	ingredients map[string]entity.Ingredient
	recipes     map[string]recipeRow
	// links maps recipe id to its ingredient ids in insertion order.
	links map[string][]string
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]entity.User),
		ingredients: make(map[string]entity.Ingredient),
		recipes:     make(map[string]recipeRow),
		links:       make(map[string][]string),
		now:         time.Now,
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Ingredients() *IngredientRepository { return &IngredientRepository{s: s} }
func (s *Store) Recipes() *RecipeRepository         { return &RecipeRepository{s: s} }

func newID() string { return uuid.NewString() }

// assigned reports whether any recipe links the ingredient. Caller holds mu.
func (s *Store) assigned(ingredientID string) bool {
	for _, ids := range s.links {
		for _, id := range ids {
			if id == ingredientID {
				return true
			}
		}
	}
	return false
}

// unlinkIngredient drops an ingredient from every recipe. Caller holds mu.
func (s *Store) unlinkIngredient(ingredientID string) {
	for rid, ids := range s.links {
		kept := ids[:0]
		for _, id := range ids {
			if id != ingredientID {
				kept = append(kept, id)
			}
		}
		s.links[rid] = kept
	}
}
