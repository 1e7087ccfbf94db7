package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/internal/domain/repository"
)

type RecipeRepository struct {
	s *Store
}

func (r *RecipeRepository) Create(_ context.Context, rec *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	rec.ID = newID()
	rec.CreatedAt, rec.UpdatedAt = now, now
	r.s.seq++
	stored := *rec
	stored.Ingredients = nil
	r.s.recipes[rec.ID] = recipeRow{recipe: stored, seq: r.s.seq}
	r.s.links[rec.ID] = uniqueIDs(rec.IngredientIDs())
	rec.Ingredients = r.s.hydrate(rec.ID)
	return nil
}

func (r *RecipeRepository) GetByID(_ context.Context, userID, id string) (*entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.recipes[id]
	if !ok || row.recipe.UserID != userID {
		return nil, repository.ErrNotFound
	}
	rec := row.recipe
	rec.Ingredients = r.s.hydrate(id)
	return &rec, nil
}

func (r *RecipeRepository) List(_ context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	wanted := make(map[string]bool, len(f.IngredientIDs))
	for _, id := range f.IngredientIDs {
		wanted[id] = true
	}
	rows := make([]recipeRow, 0)
	for id, row := range r.s.recipes {
		if row.recipe.UserID != f.UserID {
			continue
		}
		if len(wanted) > 0 && !linksAny(r.s.links[id], wanted) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]entity.Recipe, 0, len(rows))
	for _, row := range rows {
		rec := row.recipe
		rec.Ingredients = r.s.hydrate(rec.ID)
		out = append(out, rec)
	}
	return out, nil
}

func (r *RecipeRepository) Update(_ context.Context, rec *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.recipes[rec.ID]
	if !ok || row.recipe.UserID != rec.UserID {
		return repository.ErrNotFound
	}
	rec.CreatedAt = row.recipe.CreatedAt
	rec.UpdatedAt = r.s.now()
	stored := *rec
	stored.Ingredients = nil
	r.s.recipes[rec.ID] = recipeRow{recipe: stored, seq: row.seq}
	r.s.links[rec.ID] = uniqueIDs(rec.IngredientIDs())
	rec.Ingredients = r.s.hydrate(rec.ID)
	return nil
}

func (r *RecipeRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.recipes[id]
	if !ok || row.recipe.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.recipes, id)
	delete(r.s.links, id)
	return nil
}

// hydrate resolves a recipe's links ordered by ingredient name. Caller holds mu.
func (s *Store) hydrate(recipeID string) []entity.Ingredient {
	out := make([]entity.Ingredient, 0, len(s.links[recipeID]))
	for _, id := range s.links[recipeID] {
		if in, ok := s.ingredients[id]; ok {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func linksAny(ids []string, wanted map[string]bool) bool {
	for _, id := range ids {
		if wanted[id] {
			return true
		}
	}
	return false
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
