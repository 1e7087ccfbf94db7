package handlers

import (
	"time"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
)

type ingredientResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toIngredient(in entity.Ingredient) ingredientResponse {
	return ingredientResponse{ID: in.ID, Name: in.Name}
}

func toIngredients(ins []entity.Ingredient) []ingredientResponse {
	out := make([]ingredientResponse, 0, len(ins))
	for _, in := range ins {
		out = append(out, toIngredient(in))
	}
	return out
}

type recipeResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       string               `json:"price"`
	Link        string               `json:"link"`
	Description string               `json:"description"`
	ImageURL    string               `json:"image_url"`
	Ingredients []ingredientResponse `json:"ingredients"`
}

func toRecipe(r entity.Recipe) recipeResponse {
	return recipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Ingredients: toIngredients(r.Ingredients),
	}
}

func toRecipes(rs []entity.Recipe) []recipeResponse {
	out := make([]recipeResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecipe(r))
	}
	return out
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUser(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}
