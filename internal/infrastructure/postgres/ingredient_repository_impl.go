package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/internal/domain/repository"
)

type IngredientRepository struct {
	pool *pgxpool.Pool
}

func NewIngredientRepository(pool *pgxpool.Pool) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

// List uses EXISTS for the assigned filter so an ingredient linked to
// several recipes still yields a single row.
func (r *IngredientRepository) List(ctx context.Context, f repository.IngredientFilter) ([]entity.Ingredient, error) {
	if !validID(f.UserID) {
		return []entity.Ingredient{}, nil
	}
	query := `
		SELECT i.id, i.user_id, i.name, i.created_at, i.updated_at
		FROM ingredients i
		WHERE i.user_id = $1`
	if f.AssignedOnly {
		query += `
		  AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.ingredient_id = i.id)`
	}
	query += `
		ORDER BY i.name DESC, i.id`

	rows, err := r.pool.Query(ctx, query, f.UserID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Ingredient, 0)
	for rows.Next() {
		var in entity.Ingredient
		if err := rows.Scan(&in.ID, &in.UserID, &in.Name, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return out, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, userID, id string) (*entity.Ingredient, error) {
	if !validID(userID) || !validID(id) {
		return nil, repository.ErrNotFound
	}
	in := &entity.Ingredient{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM ingredients
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err := row.Scan(&in.ID, &in.UserID, &in.Name, &in.CreatedAt, &in.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select ingredient: %w", err)
	}
	return in, nil
}

func (r *IngredientRepository) GetOrCreate(ctx context.Context, userID, name string) (*entity.Ingredient, bool, error) {
	if !validID(userID) {
		return nil, false, repository.ErrNotFound
	}
	in := &entity.Ingredient{UserID: userID, Name: name}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ingredients (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO NOTHING
		RETURNING id, created_at, updated_at
	`, userID, name)
	err := row.Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err == nil {
		return in, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert ingredient: %w", err)
	}

	row = r.pool.QueryRow(ctx, `
		SELECT id, created_at, updated_at
		FROM ingredients
		WHERE user_id = $1 AND name = $2
	`, userID, name)
	if err := row.Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt); err != nil {
		return nil, false, fmt.Errorf("select ingredient by name: %w", err)
	}
	return in, false, nil
}

// Update writes only the name; owner and id are never changed.
func (r *IngredientRepository) Update(ctx context.Context, in *entity.Ingredient) error {
	if !validID(in.UserID) || !validID(in.ID) {
		return repository.ErrNotFound
	}
	in.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE ingredients
		SET name = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, in.Name, in.UpdatedAt, in.ID, in.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update ingredient: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *IngredientRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(userID) || !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.IngredientRepository = (*IngredientRepository)(nil)
