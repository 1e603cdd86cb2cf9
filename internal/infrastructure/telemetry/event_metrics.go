package telemetry

import (
	"context"

	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
)

// EventMetricsHandler counts every domain event and the item links cleared
// by order and invoice deletions
type EventMetricsHandler struct {
	metrics *Metrics
}

// NewEventMetricsHandler creates a wildcard event handler feeding m
func NewEventMetricsHandler(m *Metrics) *EventMetricsHandler {
	return &EventMetricsHandler{metrics: m}
}

// Handle implements shared.EventHandler
func (h *EventMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.metrics.ObserveEvent(event.EventType())

	switch e := event.(type) {
	case *procurement.PurchaseOrderDeletedEvent:
		h.metrics.ObserveDetach("purchase_order", e.DetachedItems)
	case *procurement.InvoiceDeletedEvent:
		h.metrics.ObserveDetach("invoice", e.DetachedItems)
	}
	return nil
}

// EventTypes subscribes to all events
func (h *EventMetricsHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*EventMetricsHandler)(nil)
