package application

import (
	"context"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/pkg/events"
)

var (
	ingredientEventsPublished = expvar.NewInt("ingredient_events_published")
	ingredientEventsFailed    = expvar.NewInt("ingredient_events_failed")
)

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// publishIngredient is best effort: a broker outage must not fail the
// request that changed the ingredient.
func publishIngredient(ctx context.Context, pub EventPublisher, logger *logrus.Logger, typ string, in entity.Ingredient) {
	if pub == nil {
		return
	}
	evt := events.IngredientEvent{
		Type:         typ,
		IngredientID: in.ID,
		UserID:       in.UserID,
		OccurredAt:   time.Now().UTC(),
	}
	if typ != events.IngredientDeleted {
		evt.Name = in.Name
	}
	if err := pub.PublishJSON(ctx, evt); err != nil {
		ingredientEventsFailed.Add(1)
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{"ingredient_id": in.ID, "type": typ}).Warn("publish ingredient event failed")
		}
		return
	}
	ingredientEventsPublished.Add(1)
}
