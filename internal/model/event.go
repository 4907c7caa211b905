package model

import "time"

// Event types emitted by the core. Records are durable at the moment of
// state change; delivery to consumers is the relay's concern.
const (
	EventProductCreated  = "ProductCreated"
	EventBatchCreated    = "BatchCreated"
	EventShipmentCreated = "ShipmentCreated"
	EventStageUpdated    = "StageUpdated"
	EventPaymentReceived = "PaymentReceived"
	EventPaymentReleased = "PaymentReleased"
	EventReturnRequested = "ReturnRequested"
	EventReturnApproved  = "ReturnApproved"
	EventProductRecalled = "ProductRecalled"
)

// Event is one row of the append-only log. Payload is a JSON document.
type Event struct {
	ID        string    `db:"id" json:"event_id"`
	Type      string    `db:"type" json:"event_type"`
	ProductID *int64    `db:"product_id" json:"product_id,omitempty"`
	BatchID   *string   `db:"batch_id" json:"batch_id,omitempty"`
	Actor     string    `db:"actor" json:"actor"`
	Payload   string    `db:"payload" json:"payload"`
	Published bool      `db:"published" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}
