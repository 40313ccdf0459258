package models

import (
	"time"

	"github.com/google/uuid"
)

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published to the message broker after a product changes.
type ProductEvent struct {
	Event      string    `json:"event"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Value      Amount    `json:"value"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProductEvent builds an event of the given type from a product snapshot.
func NewProductEvent(eventType string, p Product) ProductEvent {
	return ProductEvent{
		Event:      eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		Value:      p.Value,
		OccurredAt: time.Now().UTC(),
	}
}
