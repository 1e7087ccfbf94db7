package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	repo "github.com/oksasatya/go-recipe-api/internal/domain/repository"
	"github.com/oksasatya/go-recipe-api/pkg/events"
)

var (
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrIngredientNameTaken = errors.New("ingredient name already used")
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// IngredientSearcher is satisfied by search.IngredientIndex.
type IngredientSearcher interface {
	Search(ctx context.Context, userID, q string, size int) ([]entity.Ingredient, error)
}

type IngredientService struct {
	Repo     repo.IngredientRepository
	Events   EventPublisher
	Searcher IngredientSearcher
	Logger   *logrus.Logger
}

func NewIngredientService(r repo.IngredientRepository, pub EventPublisher, searcher IngredientSearcher, logger *logrus.Logger) *IngredientService {
	return &IngredientService{Repo: r, Events: pub, Searcher: searcher, Logger: logger}
}

// List returns the caller's ingredients. With assignedOnly it keeps those
// used by at least one recipe, each once.
func (s *IngredientService) List(ctx context.Context, userID string, assignedOnly bool) ([]entity.Ingredient, error) {
	return s.Repo.List(ctx, repo.IngredientFilter{UserID: userID, AssignedOnly: assignedOnly})
}

type UpdateIngredientInput struct {
	Name *string
}

// Update changes the name only. A nil Name returns the record untouched.
func (s *IngredientService) Update(ctx context.Context, userID, id string, in UpdateIngredientInput) (*entity.Ingredient, error) {
	ing, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, mapIngredientErr(err)
	}
	if in.Name == nil {
		return ing, nil
	}
	ing.Name = strings.TrimSpace(*in.Name)
	if err := s.Repo.Update(ctx, ing); err != nil {
		return nil, mapIngredientErr(err)
	}
	publishIngredient(ctx, s.Events, s.Logger, events.IngredientUpserted, *ing)
	return ing, nil
}

func (s *IngredientService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return mapIngredientErr(err)
	}
	publishIngredient(ctx, s.Events, s.Logger, events.IngredientDeleted, entity.Ingredient{ID: id, UserID: userID})
	return nil
}

// Search returns an empty result when no search backend is wired.
func (s *IngredientService) Search(ctx context.Context, userID, q string, size int) ([]entity.Ingredient, error) {
	q = strings.TrimSpace(q)
	if s.Searcher == nil || q == "" {
		return []entity.Ingredient{}, nil
	}
	switch {
	case size <= 0:
		size = defaultSearchSize
	case size > maxSearchSize:
		size = maxSearchSize
	}
	return s.Searcher.Search(ctx, userID, q, size)
}

func mapIngredientErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrIngredientNotFound
	case errors.Is(err, repo.ErrConflict):
		return ErrIngredientNameTaken
	default:
		return err
	}
}
