package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/internal/event"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

// Producer is the broker surface the relay needs.
type Producer interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Relay drains unpublished events to the broker. Delivery is best-effort;
// the durable record stays in the events table either way.
type Relay struct {
	db       *sqlx.DB
	repo     event.Repository
	producer Producer
	logger   logger.ZapLogger

	Interval  time.Duration
	BatchSize int
}

func New(db *sqlx.DB, repo event.Repository, producer Producer, log logger.ZapLogger) *Relay {
	return &Relay{
		db:        db,
		repo:      repo,
		producer:  producer,
		logger:    log,
		Interval:  time.Second,
		BatchSize: 100,
	}
}

func (r *Relay) Start(ctx context.Context) {
	r.logger.Info("starting event relay")
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping event relay")
			return
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.Error("relay drain failed", zap.Error(err))
			}
		}
	}
}

// Drain publishes one batch of unpublished events and marks them. Events
// that fail to publish stay unpublished and are retried next tick.
func (r *Relay) Drain(ctx context.Context) error {
	events, err := r.repo.Unpublished(ctx, r.db, r.BatchSize)
	if err != nil {
		return err
	}

	var published []string
	for i := range events {
		ev := &events[i]
		value, err := json.Marshal(envelope(ev))
		if err != nil {
			r.logger.Error("marshal event", zap.String("event_id", ev.ID), zap.Error(err))
			continue
		}
		if err := r.producer.Publish(ctx, []byte(ev.ID), value); err != nil {
			r.logger.Error("publish event",
				zap.String("event_id", ev.ID),
				zap.String("type", ev.Type),
				zap.Error(err),
			)
			break
		}
		published = append(published, ev.ID)
	}

	if len(published) == 0 {
		return nil
	}
	return r.repo.MarkPublished(ctx, r.db, published)
}

type eventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	ProductID *int64          `json:"product_id,omitempty"`
	BatchID   *string         `json:"batch_id,omitempty"`
	Actor     string          `json:"actor"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func envelope(ev *model.Event) eventEnvelope {
	return eventEnvelope{
		EventID:   ev.ID,
		EventType: ev.Type,
		ProductID: ev.ProductID,
		BatchID:   ev.BatchID,
		Actor:     ev.Actor,
		Payload:   json.RawMessage(ev.Payload),
		Timestamp: ev.CreatedAt,
	}
}
