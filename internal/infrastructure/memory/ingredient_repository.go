package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/internal/domain/repository"
)

type IngredientRepository struct {
	s *Store
}

func (r *IngredientRepository) List(_ context.Context, f repository.IngredientFilter) ([]entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Ingredient, 0)
	for _, in := range r.s.ingredients {
		if in.UserID != f.UserID {
			continue
		}
		if f.AssignedOnly && !r.s.assigned(in.ID) {
			continue
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name > out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *IngredientRepository) GetByID(_ context.Context, userID, id string) (*entity.Ingredient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	in, ok := r.s.ingredients[id]
	if !ok || in.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &in, nil
}

func (r *IngredientRepository) GetOrCreate(_ context.Context, userID, name string) (*entity.Ingredient, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, in := range r.s.ingredients {
		if in.UserID == userID && in.Name == name {
			in := in
			return &in, false, nil
		}
	}
	now := r.s.now()
	in := entity.Ingredient{ID: newID(), UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now}
	r.s.ingredients[in.ID] = in
	return &in, true, nil
}

func (r *IngredientRepository) Update(_ context.Context, in *entity.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.ingredients[in.ID]
	if !ok || cur.UserID != in.UserID {
		return repository.ErrNotFound
	}
	for id, other := range r.s.ingredients {
		if id != in.ID && other.UserID == in.UserID && other.Name == in.Name {
			return repository.ErrConflict
		}
	}
	cur.Name = in.Name
	cur.UpdatedAt = r.s.now()
	r.s.ingredients[in.ID] = cur
	*in = cur
	return nil
}

func (r *IngredientRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	in, ok := r.s.ingredients[id]
	if !ok || in.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.ingredients, id)
	r.s.unlinkIngredient(id)
	return nil
}

var _ repository.IngredientRepository = (*IngredientRepository)(nil)
