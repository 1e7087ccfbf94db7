package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	repo "github.com/oksasatya/go-recipe-api/internal/domain/repository"
	"github.com/oksasatya/go-recipe-api/pkg/events"
)

var (
	ErrRecipeNotFound          = errors.New("recipe not found")
	ErrImageStorageUnavailable = errors.New("image storage not configured")
)

// ImageUploader is satisfied by helpers.GCSUploader.
type ImageUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type RecipeService struct {
	Repo        repo.RecipeRepository
	Ingredients repo.IngredientRepository
	Images      ImageUploader
	Events      EventPublisher
	Logger      *logrus.Logger
}

func NewRecipeService(r repo.RecipeRepository, ingredients repo.IngredientRepository, images ImageUploader, pub EventPublisher, logger *logrus.Logger) *RecipeService {
	return &RecipeService{Repo: r, Ingredients: ingredients, Images: images, Events: pub, Logger: logger}
}

type CreateRecipeInput struct {
	Title       string
	Description string
	Link        string
	TimeMinutes int
	Price       decimal.Decimal
	Ingredients []string
}

// UpdateRecipeInput is a partial update: nil fields are left as they are.
// A non-nil Ingredients replaces the whole ingredient set.
type UpdateRecipeInput struct {
	Title       *string
	Description *string
	Link        *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Ingredients *[]string
}

func (s *RecipeService) List(ctx context.Context, userID string, ingredientIDs []string) ([]entity.Recipe, error) {
	return s.Repo.List(ctx, repo.RecipeFilter{UserID: userID, IngredientIDs: ingredientIDs})
}

func (s *RecipeService) Get(ctx context.Context, userID, id string) (*entity.Recipe, error) {
	rec, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, mapRecipeErr(err)
	}
	return rec, nil
}

func (s *RecipeService) Create(ctx context.Context, userID string, in CreateRecipeInput) (*entity.Recipe, error) {
	ings, err := s.resolveIngredients(ctx, userID, in.Ingredients)
	if err != nil {
		return nil, err
	}
	rec := &entity.Recipe{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Link:        in.Link,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Ingredients: ings,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecipeService) Update(ctx context.Context, userID, id string, in UpdateRecipeInput) (*entity.Recipe, error) {
	rec, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, mapRecipeErr(err)
	}
	if in.Title != nil {
		rec.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Link != nil {
		rec.Link = *in.Link
	}
	if in.TimeMinutes != nil {
		rec.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		rec.Price = *in.Price
	}
	if in.Ingredients != nil {
		ings, err := s.resolveIngredients(ctx, userID, *in.Ingredients)
		if err != nil {
			return nil, err
		}
		rec.Ingredients = ings
	}
	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, mapRecipeErr(err)
	}
	return rec, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return mapRecipeErr(err)
	}
	return nil
}

// UploadImage stores the image under recipes/<user>/<recipe>/ and saves its URL.
func (s *RecipeService) UploadImage(ctx context.Context, userID, id string, r io.Reader, filename, contentType string) (*entity.Recipe, error) {
	rec, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, mapRecipeErr(err)
	}
	if s.Images == nil {
		return nil, ErrImageStorageUnavailable
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("recipes", userID, rec.ID, uuid.NewString()+ext))
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", rec.ID).Error("upload recipe image failed")
		}
		return nil, err
	}
	rec.ImageURL = url
	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, mapRecipeErr(err)
	}
	return rec, nil
}

// resolveIngredients get-or-creates each distinct name for the owner.
func (s *RecipeService) resolveIngredients(ctx context.Context, userID string, names []string) ([]entity.Ingredient, error) {
	seen := make(map[string]bool, len(names))
	out := make([]entity.Ingredient, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ing, created, err := s.Ingredients.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if created {
			publishIngredient(ctx, s.Events, s.Logger, events.IngredientUpserted, *ing)
		}
		out = append(out, *ing)
	}
	return out, nil
}

func mapRecipeErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRecipeNotFound
	}
	return err
}
