package entity

import "time"

// Ingredient belongs to exactly one user. Name is unique per owner.
type Ingredient struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
