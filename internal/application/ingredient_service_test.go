package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	repo "github.com/oksasatya/go-recipe-api/internal/domain/repository"
	"github.com/oksasatya/go-recipe-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-recipe-api/pkg/events"
)

func strPtr(s string) *string { return &s }

func ingredientFilter(userID string) repo.IngredientFilter {
	return repo.IngredientFilter{UserID: userID}
}

func newIngredientEnv(t *testing.T) (*memory.Store, *IngredientService, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	svc := NewIngredientService(store.Ingredients(), pub, nil, nil)
	return store, svc, pub
}

func TestIngredientService_ListAssignedOnly(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newIngredientEnv(t)
	in1, _, _ := store.Ingredients().GetOrCreate(ctx, "u1", "Ingredient1")
	_, _, _ = store.Ingredients().GetOrCreate(ctx, "u1", "Ingredient2")
	require.NoError(t, store.Recipes().Create(ctx, &entity.Recipe{
		UserID: "u1", Title: "Apple Crumble", TimeMinutes: 5,
		Price: decimal.RequireFromString("4.50"), Ingredients: []entity.Ingredient{*in1},
	}))

	all, err := svc.List(ctx, "u1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assigned, err := svc.List(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, in1.ID, assigned[0].ID)
}

func TestIngredientService_UpdateChangesOnlyName(t *testing.T) {
	ctx := context.Background()
	store, svc, pub := newIngredientEnv(t)
	orig, _, _ := store.Ingredients().GetOrCreate(ctx, "u1", "Test1")

	got, err := svc.Update(ctx, "u1", orig.ID, UpdateIngredientInput{Name: strPtr("  Test2 ")})
	require.NoError(t, err)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Test2", got.Name)

	stored, err := store.Ingredients().GetByID(ctx, "u1", orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test2", stored.Name)
	assert.Equal(t, []string{events.IngredientUpserted}, pub.types())
	assert.Equal(t, "Test2", pub.events[0].Name)
}

func TestIngredientService_UpdateWithoutNameIsNoop(t *testing.T) {
	ctx := context.Background()
	store, svc, pub := newIngredientEnv(t)
	orig, _, _ := store.Ingredients().GetOrCreate(ctx, "u1", "Salt")

	got, err := svc.Update(ctx, "u1", orig.ID, UpdateIngredientInput{})
	require.NoError(t, err)
	assert.Equal(t, "Salt", got.Name)
	assert.Empty(t, pub.types())
}

func TestIngredientService_NotFoundForOtherOwner(t *testing.T) {
	ctx := context.Background()
	store, svc, pub := newIngredientEnv(t)
	theirs, _, _ := store.Ingredients().GetOrCreate(ctx, "u2", "Saffron")

	_, err := svc.Update(ctx, "u1", theirs.ID, UpdateIngredientInput{Name: strPtr("Mine")})
	assert.ErrorIs(t, err, ErrIngredientNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u1", theirs.ID), ErrIngredientNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u1", "does-not-exist"), ErrIngredientNotFound)
	assert.Empty(t, pub.types())
}

func TestIngredientService_UpdateDuplicateName(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newIngredientEnv(t)
	a, _, _ := store.Ingredients().GetOrCreate(ctx, "u1", "A")
	_, _, _ = store.Ingredients().GetOrCreate(ctx, "u1", "B")

	_, err := svc.Update(ctx, "u1", a.ID, UpdateIngredientInput{Name: strPtr("B")})
	assert.ErrorIs(t, err, ErrIngredientNameTaken)
}

func TestIngredientService_DeletePublishesAndSurvivesBrokerFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	logger, hook := test.NewNullLogger()
	pub := &recordingPublisher{err: errBroker}
	svc := NewIngredientService(store.Ingredients(), pub, nil, logger)
	in, _, _ := store.Ingredients().GetOrCreate(ctx, "u1", "Orange")

	require.NoError(t, svc.Delete(ctx, "u1", in.ID))

	_, err := store.Ingredients().GetByID(ctx, "u1", in.ID)
	assert.Error(t, err)
	assert.Equal(t, []string{events.IngredientDeleted}, pub.types())
	assert.Empty(t, pub.events[0].Name)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestIngredientService_Search(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	noSearch := NewIngredientService(store.Ingredients(), nil, nil, nil)
	got, err := noSearch.Search(ctx, "u1", "basil", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	stub := &stubSearcher{result: []entity.Ingredient{{ID: "i1", UserID: "u1", Name: "Basil"}}}
	svc := NewIngredientService(store.Ingredients(), nil, stub, nil)

	got, err = svc.Search(ctx, "u1", " basil ", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "basil", stub.gotQ)
	assert.Equal(t, defaultSearchSize, stub.gotSize)

	_, _ = svc.Search(ctx, "u1", "basil", 500)
	assert.Equal(t, maxSearchSize, stub.gotSize)
}
