package application

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-recipe-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-recipe-api/pkg/events"
)

func TestRecipeService_CreateReusesIngredients(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	svc := NewRecipeService(store.Recipes(), store.Ingredients(), nil, pub, nil)
	existing, _, _ := store.Ingredients().GetOrCreate(ctx, "u1", "Salt")

	rec, err := svc.Create(ctx, "u1", CreateRecipeInput{
		Title:       " Soup ",
		TimeMinutes: 30,
		Price:       decimal.RequireFromString("5.25"),
		Ingredients: []string{"Salt", "Leek", "Leek", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Soup", rec.Title)
	require.Len(t, rec.Ingredients, 2)
	assert.Equal(t, "Leek", rec.Ingredients[0].Name)
	assert.Equal(t, existing.ID, rec.Ingredients[1].ID)
	assert.Equal(t, []string{events.IngredientUpserted}, pub.types())

	all, err := store.Ingredients().List(ctx, ingredientFilter("u1"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecipeService_UpdatePartialAndReplaceIngredients(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewRecipeService(store.Recipes(), store.Ingredients(), nil, nil, nil)
	rec, err := svc.Create(ctx, "u1", CreateRecipeInput{
		Title: "Curry", TimeMinutes: 25, Price: decimal.RequireFromString("7.00"),
		Ingredients: []string{"Rice"},
	})
	require.NoError(t, err)

	mins := 40
	got, err := svc.Update(ctx, "u1", rec.ID, UpdateRecipeInput{TimeMinutes: &mins})
	require.NoError(t, err)
	assert.Equal(t, "Curry", got.Title)
	assert.Equal(t, 40, got.TimeMinutes)
	require.Len(t, got.Ingredients, 1)

	names := []string{"Chicken", "Coconut"}
	got, err = svc.Update(ctx, "u1", rec.ID, UpdateRecipeInput{Ingredients: &names})
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Chicken", got.Ingredients[0].Name)

	_, err = svc.Update(ctx, "u2", rec.ID, UpdateRecipeInput{TimeMinutes: &mins})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeService_DeleteIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewRecipeService(store.Recipes(), store.Ingredients(), nil, nil, nil)
	rec, err := svc.Create(ctx, "u1", CreateRecipeInput{Title: "Tea", TimeMinutes: 3, Price: decimal.Zero})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", rec.ID), ErrRecipeNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", rec.ID))
	_, err = svc.Get(ctx, "u1", rec.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeService_UploadImage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	up := &fakeUploader{}
	svc := NewRecipeService(store.Recipes(), store.Ingredients(), up, nil, nil)
	rec, err := svc.Create(ctx, "u1", CreateRecipeInput{Title: "Pie", TimeMinutes: 60, Price: decimal.RequireFromString("9.99")})
	require.NoError(t, err)

	got, err := svc.UploadImage(ctx, "u1", rec.ID, strings.NewReader("png-bytes"), "Photo.PNG", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.path, "recipes/u1/"+rec.ID+"/"))
	assert.True(t, strings.HasSuffix(up.path, ".png"))
	assert.Equal(t, "image/png", up.contentType)
	assert.Equal(t, []byte("png-bytes"), up.body)
	assert.Equal(t, "https://storage.example.com/"+up.path, got.ImageURL)

	stored, err := svc.Get(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ImageURL, stored.ImageURL)
}

func TestRecipeService_UploadImageWithoutStorage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewRecipeService(store.Recipes(), store.Ingredients(), nil, nil, nil)
	rec, err := svc.Create(ctx, "u1", CreateRecipeInput{Title: "Pie", TimeMinutes: 60, Price: decimal.Zero})
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, "u1", rec.ID, strings.NewReader("x"), "a.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrImageStorageUnavailable)

	_, err = svc.UploadImage(ctx, "u2", rec.ID, strings.NewReader("x"), "a.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
