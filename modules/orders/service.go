package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/example/footwear-wholesale/events"
	"github.com/example/footwear-wholesale/metrics"
	"github.com/go-monolith/mono"
)

// placeOrder handles the orders.place service request.
// The order is acknowledged whether or not the notification goes out.
func (m *Module) placeOrder(_ context.Context, req PlaceOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	lines := make([]events.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, events.OrderLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Color:    item.Color,
			Photo:    item.Photo,
		})
	}

	event := events.OrderPlacedEvent{
		Reference:     m.newReference(),
		Kind:          events.OrderKindCart,
		CustomerName:  req.Name,
		CustomerPhone: req.Phone,
		Items:         lines,
		Total:         req.Total,
		PlacedAt:      m.now(),
	}
	m.publish(event)

	return OrderResponse{Success: true, Reference: event.Reference, Total: event.Total}, nil
}

// quickOrder handles the orders.quick service request.
// The total is recomputed from the stored price.
func (m *Module) quickOrder(ctx context.Context, req QuickOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	if req.ProductID == "" {
		return OrderResponse{}, fmt.Errorf("product id is required")
	}

	p, err := m.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to load product: %w", err)
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = p.MinOrderQuantity
	}
	total := quantity * p.Price

	event := events.OrderPlacedEvent{
		Reference:     m.newReference(),
		Kind:          events.OrderKindQuick,
		CustomerName:  req.Name,
		CustomerPhone: req.Phone,
		Items: []events.OrderLine{{
			Name:     p.Name,
			Quantity: quantity,
			Price:    p.Price,
			Color:    req.Color,
			Photo:    p.MainPhoto,
		}},
		Total:    total,
		PlacedAt: m.now(),
	}
	m.publish(event)

	return OrderResponse{Success: true, Reference: event.Reference, Total: total}, nil
}

// publish emits OrderPlaced. Publishing is best-effort.
func (m *Module) publish(event events.OrderPlacedEvent) {
	metrics.OrdersPlaced.WithLabelValues(string(event.Kind)).Inc()

	if m.emit == nil {
		m.logger.Warn("Event bus not set, order notification skipped", "reference", event.Reference)
		return
	}
	if err := m.emit(event); err != nil {
		m.logger.Warn("Failed to publish OrderPlaced event",
			"reference", event.Reference,
			"error", err)
		return
	}

	m.logger.Info("Order placed",
		"reference", event.Reference,
		"kind", string(event.Kind),
		"items", len(event.Items),
		"total", event.Total)
}

func (m *Module) now() time.Time {
	if m.clock != nil {
		return m.clock()
	}
	return time.Now()
}
