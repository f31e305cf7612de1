package ports

import (
	"context"
	"time"
)

// EventType tipo de evento de negocio notificado tras el commit.
type EventType string

const (
	EventPurchaseCreated   EventType = "purchase.created"
	EventPurchaseCompleted EventType = "purchase.completed"
	EventPurchaseCancelled EventType = "purchase.cancelled"
	EventSaleCreated       EventType = "sale.created"
	EventTransferCreated   EventType = "transfer.created"
	EventTransferShipped   EventType = "transfer.shipped"
	EventTransferReceived  EventType = "transfer.received"
	EventTransferRejected  EventType = "transfer.rejected"
	EventStockAdjusted     EventType = "stock.adjusted"
	EventStockLow          EventType = "stock.low"
)

// Event evento con los IDs de las entidades afectadas (ej: "transfer_id", "product_id").
type Event struct {
	Type       EventType         `json:"type"`
	EntityIDs  map[string]string `json:"entity_ids"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent construye un evento con la hora actual.
func NewEvent(t EventType, ids map[string]string) Event {
	return Event{Type: t, EntityIDs: ids, OccurredAt: time.Now().UTC()}
}

// Notifier define el puerto de salida para notificaciones (alertas de stock bajo, estados de traslado).
// Se invoca siempre DESPUÉS del commit; es fire-and-forget: no devuelve error y sus fallos
// nunca afectan la mutación ya confirmada.
type Notifier interface {
	Notify(ctx context.Context, events ...Event)
}

// NopNotifier descarta los eventos.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ...Event) {}
