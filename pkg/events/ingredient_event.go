package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types carried on the ingredient queue.
const (
	IngredientUpserted = "ingredient.upserted"
	IngredientDeleted  = "ingredient.deleted"
)

// IngredientEvent is the JSON payload put on the RabbitMQ queue whenever an
// ingredient is created, renamed or deleted. Name is empty for deletes.
type IngredientEvent struct {
	Type         string    `json:"type"`
	IngredientID string    `json:"ingredient_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// DecodeIngredientEvent parses and checks a queue message body.
func DecodeIngredientEvent(body []byte) (IngredientEvent, error) {
	var evt IngredientEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return evt, fmt.Errorf("decode ingredient event: %w", err)
	}
	switch evt.Type {
	case IngredientUpserted, IngredientDeleted:
	default:
		return evt, fmt.Errorf("unknown ingredient event type %q", evt.Type)
	}
	if evt.IngredientID == "" || evt.UserID == "" {
		return evt, fmt.Errorf("ingredient event missing ids")
	}
	return evt, nil
}
