// Package event is the append-only record of state-changing operations,
// consumed by external indexers through the relay.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tracechain/supplychain-service/internal/model"
)

// Build assembles an event row. Payload must marshal to JSON.
func Build(eventType, actor string, productID *int64, batchID *string, payload any) (*model.Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return &model.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		ProductID: productID,
		BatchID:   batchID,
		Actor:     actor,
		Payload:   string(body),
		CreatedAt: time.Now().UTC(),
	}, nil
}
