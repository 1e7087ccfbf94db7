// Package worker consumes ingredient events from RabbitMQ and applies them
// to the Elasticsearch ingredient index.
package worker

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	"github.com/oksasatya/go-recipe-api/pkg/events"
)

// Prefetch is the QoS window used by the indexer consumer.
const Prefetch = 16

// IngredientStore is satisfied by search.IngredientIndex.
type IngredientStore interface {
	Upsert(ctx context.Context, in entity.Ingredient) error
	Delete(ctx context.Context, id string) error
}

type IngredientIndexer struct {
	Index   IngredientStore
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewIngredientIndexer(index IngredientStore, logger *logrus.Logger) *IngredientIndexer {
	return &IngredientIndexer{Index: index, Logger: logger, Timeout: 15 * time.Second}
}

// Apply writes one event to the index.
func (w *IngredientIndexer) Apply(ctx context.Context, evt events.IngredientEvent) error {
	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if evt.Type == events.IngredientDeleted {
		return w.Index.Delete(c, evt.IngredientID)
	}
	return w.Index.Upsert(c, entity.Ingredient{
		ID:        evt.IngredientID,
		UserID:    evt.UserID,
		Name:      evt.Name,
		UpdatedAt: evt.OccurredAt,
	})
}

// Handle acks a delivery once applied. Malformed messages are dropped; index
// failures are requeued once, then dropped.
func (w *IngredientIndexer) Handle(ctx context.Context, d amqp.Delivery) {
	evt, err := events.DecodeIngredientEvent(d.Body)
	if err != nil {
		w.log().WithError(err).Warn("bad message")
		_ = d.Nack(false, false)
		return
	}
	if err := w.Apply(ctx, evt); err != nil {
		w.log().WithError(err).WithFields(logrus.Fields{
			"ingredient_id": evt.IngredientID,
			"type":          evt.Type,
			"redelivered":   d.Redelivered,
		}).Error("index ingredient failed")
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

// Run handles deliveries until the channel closes or ctx is done.
func (w *IngredientIndexer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			w.Handle(ctx, d)
		}
	}
}

func (w *IngredientIndexer) log() *logrus.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return logrus.StandardLogger()
}
