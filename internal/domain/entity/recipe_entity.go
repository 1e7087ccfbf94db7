package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is owned by a user and references ingredients many-to-many
// via recipe_ingredients. Linked ingredients may belong to any owner.
type Recipe struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Link        string
	TimeMinutes int
	Price       decimal.Decimal
	ImageURL    string
	Ingredients []Ingredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IngredientIDs returns the ids of the linked ingredients in order.
func (r *Recipe) IngredientIDs() []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		ids = append(ids, in.ID)
	}
	return ids
}
