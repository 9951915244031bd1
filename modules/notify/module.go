// Package notify forwards placed orders to the operator chat.
package notify

import (
	"context"
	"fmt"

	"github.com/example/footwear-wholesale/events"
	"github.com/example/footwear-wholesale/metrics"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Dispatcher sends chat messages.
type Dispatcher interface {
	Enabled() bool
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, photoURL, caption string) error
}

// Module consumes OrderPlaced events and dispatches one summary per order.
type Module struct {
	bot    Dispatcher
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates a notify module.
func NewModule(bot Dispatcher, logger types.Logger) *Module {
	return &Module{
		bot:    bot,
		logger: logger.WithModule("notify"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notify"
}

// RegisterEventConsumers subscribes to OrderPlaced.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderPlacedV1, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}
	m.logger.Info("Registered event consumers", "events", []string{"OrderPlaced.v1"})
	return nil
}

// Start logs whether dispatch is enabled.
func (m *Module) Start(_ context.Context) error {
	if !m.bot.Enabled() {
		m.logger.Warn("Bot credentials not configured, orders will only be logged")
	}
	m.logger.Info("Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// handleOrderPlaced never returns an error so the bus does not redeliver.
func (m *Module) handleOrderPlaced(ctx context.Context, event events.OrderPlacedEvent, _ *mono.Msg) error {
	m.Dispatch(ctx, event)
	return nil
}

// Dispatch sends the text summary and then at most one photo. Failures are
// logged and counted, never returned.
func (m *Module) Dispatch(ctx context.Context, event events.OrderPlacedEvent) {
	text := ComposeSummary(event)

	if !m.bot.Enabled() {
		metrics.Notifications.WithLabelValues("message", metrics.OutcomeSkipped).Inc()
		m.logger.Info("Order received", "reference", event.Reference, "summary", text)
		return
	}

	if err := m.bot.SendMessage(ctx, text); err != nil {
		metrics.Notifications.WithLabelValues("message", metrics.OutcomeFailure).Inc()
		m.logger.Error("Failed to send order summary", "reference", event.Reference, "error", err)
		return
	}
	metrics.Notifications.WithLabelValues("message", metrics.OutcomeSuccess).Inc()

	photo := firstPhoto(event)
	if photo == "" {
		return
	}
	if err := m.bot.SendPhoto(ctx, photo, event.Reference); err != nil {
		metrics.Notifications.WithLabelValues("photo", metrics.OutcomeFailure).Inc()
		m.logger.Warn("Failed to send order photo", "reference", event.Reference, "error", err)
		return
	}
	metrics.Notifications.WithLabelValues("photo", metrics.OutcomeSuccess).Inc()
	m.logger.Debug("Order notification sent", "reference", event.Reference)
}
