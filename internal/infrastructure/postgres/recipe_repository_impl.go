package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/internal/domain/repository"
)

const recipeColumns = `r.id, r.user_id, r.title, r.description, r.link, r.time_minutes, r.price::text, r.image_url, r.created_at, r.updated_at`

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	if !validID(rec.UserID) {
		return repository.ErrNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO recipes (user_id, title, description, link, time_minutes, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)
		RETURNING id, created_at, updated_at
	`, rec.UserID, rec.Title, rec.Description, rec.Link, rec.TimeMinutes, rec.Price.StringFixed(2), rec.ImageURL)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	if err := linkIngredients(ctx, tx, rec.ID, rec.IngredientIDs()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RecipeRepository) GetByID(ctx context.Context, userID, id string) (*entity.Recipe, error) {
	if !validID(userID) || !validID(id) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes r WHERE r.id = $1 AND r.user_id = $2`, id, userID)
	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select recipe: %w", err)
	}
	recipes := []entity.Recipe{*rec}
	if err := r.loadIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

func (r *RecipeRepository) List(ctx context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	if !validID(f.UserID) {
		return []entity.Recipe{}, nil
	}
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.user_id = $1`
	args := []any{f.UserID}
	if len(f.IngredientIDs) > 0 {
		query += ` AND EXISTS (
			SELECT 1 FROM recipe_ingredients ri
			WHERE ri.recipe_id = r.id AND ri.ingredient_id::text = ANY($2)
		)`
		args = append(args, f.IngredientIDs)
	}
	query += ` ORDER BY r.created_at DESC, r.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	if err := r.loadIngredients(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the scalar fields and replaces the ingredient links.
func (r *RecipeRepository) Update(ctx context.Context, rec *entity.Recipe) error {
	if !validID(rec.UserID) || !validID(rec.ID) {
		return repository.ErrNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, `
		UPDATE recipes
		SET title = $1, description = $2, link = $3, time_minutes = $4,
		    price = $5::numeric, image_url = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`, rec.Title, rec.Description, rec.Link, rec.TimeMinutes, rec.Price.StringFixed(2), rec.ImageURL, rec.UpdatedAt, rec.ID, rec.UserID)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if err := linkIngredients(ctx, tx, rec.ID, rec.IngredientIDs()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RecipeRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(userID) || !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func linkIngredients(ctx context.Context, tx pgx.Tx, recipeID string, ingredientIDs []string) error {
	for _, id := range ingredientIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, recipeID, id); err != nil {
			return fmt.Errorf("link ingredient %s: %w", id, err)
		}
	}
	return nil
}

func (r *RecipeRepository) loadIngredients(ctx context.Context, recipes []entity.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(recipes))
	index := make(map[string]int, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
		index[recipes[i].ID] = i
		recipes[i].Ingredients = []entity.Ingredient{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.user_id, i.name, i.created_at, i.updated_at
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id::text = ANY($1)
		ORDER BY i.name
	`, ids)
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID string
		var in entity.Ingredient
		if err := rows.Scan(&recipeID, &in.ID, &in.UserID, &in.Name, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].Ingredients = append(recipes[i].Ingredients, in)
		}
	}
	return rows.Err()
}

func scanRecipe(row pgx.Row) (*entity.Recipe, error) {
	rec := &entity.Recipe{}
	var price string
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &rec.Link,
		&rec.TimeMinutes, &price, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	rec.Price = p
	return rec, nil
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
