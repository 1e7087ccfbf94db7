//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/internal/domain/repository"
	"github.com/oksasatya/go-recipe-api/internal/testutil"
)

type repos struct {
	users       *UserRepository
	ingredients *IngredientRepository
	recipes     *RecipeRepository
}

func setup(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)
	return repos{
		users:       NewUserRepository(pool),
		ingredients: NewIngredientRepository(pool),
		recipes:     NewRecipeRepository(pool),
	}
}

func createUser(t *testing.T, r repos, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "hash", Name: "Test"}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndConflict(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := createUser(t, r, "user@example.com")

	got, err := r.users.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = r.users.Create(ctx, &entity.User{Email: "user@example.com", Password: "x"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestIngredientRepository_ListAndAssigned(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u1 := createUser(t, r, "u1@example.com")
	u2 := createUser(t, r, "u2@example.com")

	vanilla, created, err := r.ingredients.GetOrCreate(ctx, u1.ID, "Vanilla")
	require.NoError(t, err)
	assert.True(t, created)
	_, _, err = r.ingredients.GetOrCreate(ctx, u1.ID, "Peper")
	require.NoError(t, err)
	_, _, err = r.ingredients.GetOrCreate(ctx, u2.ID, "Salt")
	require.NoError(t, err)

	again, created, err := r.ingredients.GetOrCreate(ctx, u1.ID, "Vanilla")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, vanilla.ID, again.ID)

	list, err := r.ingredients.List(ctx, repository.IngredientFilter{UserID: u1.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Vanilla", list[0].Name)
	assert.Equal(t, "Peper", list[1].Name)

	for _, title := range []string{"Custard", "Ice cream"} {
		require.NoError(t, r.recipes.Create(ctx, &entity.Recipe{
			UserID: u1.ID, Title: title, TimeMinutes: 10,
			Price: decimal.RequireFromString("3.20"), Ingredients: []entity.Ingredient{*vanilla},
		}))
	}
	assigned, err := r.ingredients.List(ctx, repository.IngredientFilter{UserID: u1.ID, AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, vanilla.ID, assigned[0].ID)
}

func TestIngredientRepository_UpdateDeleteScoped(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u1 := createUser(t, r, "u1@example.com")
	u2 := createUser(t, r, "u2@example.com")
	in, _, err := r.ingredients.GetOrCreate(ctx, u1.ID, "Cilantro")
	require.NoError(t, err)
	_, _, err = r.ingredients.GetOrCreate(ctx, u1.ID, "Basil")
	require.NoError(t, err)

	err = r.ingredients.Update(ctx, &entity.Ingredient{ID: in.ID, UserID: u2.ID, Name: "Mine"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = r.ingredients.Update(ctx, &entity.Ingredient{ID: in.ID, UserID: u1.ID, Name: "Basil"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	require.NoError(t, r.ingredients.Update(ctx, &entity.Ingredient{ID: in.ID, UserID: u1.ID, Name: "Coriander"}))

	_, err = r.ingredients.GetByID(ctx, u1.ID, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, r.ingredients.Delete(ctx, u2.ID, in.ID), repository.ErrNotFound)
	require.NoError(t, r.ingredients.Delete(ctx, u1.ID, in.ID))
	_, err = r.ingredients.GetByID(ctx, u1.ID, in.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecipeRepository_RoundTripAndFilter(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := createUser(t, r, "u@example.com")
	eggs, _, _ := r.ingredients.GetOrCreate(ctx, u.ID, "Eggs")
	flour, _, _ := r.ingredients.GetOrCreate(ctx, u.ID, "Flour")

	pancakes := &entity.Recipe{
		UserID: u.ID, Title: "Pancakes", TimeMinutes: 15, Link: "https://example.com/p",
		Price: decimal.RequireFromString("4.50"), Ingredients: []entity.Ingredient{*eggs, *flour},
	}
	require.NoError(t, r.recipes.Create(ctx, pancakes))
	bread := &entity.Recipe{
		UserID: u.ID, Title: "Bread", TimeMinutes: 90,
		Price: decimal.RequireFromString("2.00"), Ingredients: []entity.Ingredient{*flour},
	}
	require.NoError(t, r.recipes.Create(ctx, bread))

	got, err := r.recipes.GetByID(ctx, u.ID, pancakes.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.50", got.Price.StringFixed(2))
	assert.Len(t, got.Ingredients, 2)

	list, err := r.recipes.List(ctx, repository.RecipeFilter{UserID: u.ID, IngredientIDs: []string{eggs.ID}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pancakes.ID, list[0].ID)

	list, err = r.recipes.List(ctx, repository.RecipeFilter{UserID: u.ID, IngredientIDs: []string{eggs.ID, flour.ID}})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got.Ingredients = []entity.Ingredient{*eggs}
	got.ImageURL = "https://storage.googleapis.com/b/x.png"
	require.NoError(t, r.recipes.Update(ctx, got))
	got, err = r.recipes.GetByID(ctx, u.ID, pancakes.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ingredients, 1)
	assert.Equal(t, "https://storage.googleapis.com/b/x.png", got.ImageURL)

	require.NoError(t, r.recipes.Delete(ctx, u.ID, pancakes.ID))
	assert.ErrorIs(t, r.recipes.Delete(ctx, u.ID, pancakes.ID), repository.ErrNotFound)
}
