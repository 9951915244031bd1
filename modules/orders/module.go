// Package orders accepts cart and quick orders and announces them on the event bus.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/footwear-wholesale/events"
	"github.com/example/footwear-wholesale/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	nanoid "github.com/jaevor/go-nanoid"
)

// referenceAlphabet omits characters that are easy to misread over the phone.
const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const referenceLength = 8

// Module provides order services.
type Module struct {
	catalog   catalog.CatalogPort
	eventBus  mono.EventBus
	emit      func(events.OrderPlacedEvent) error
	reference func() string
	clock     func() time.Time
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
)

// NewModule creates a new orders module.
func NewModule(logger types.Logger) (*Module, error) {
	gen, err := nanoid.CustomASCII(referenceAlphabet, referenceLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference generator: %w", err)
	}
	return &Module{
		reference: gen,
		logger:    logger.WithModule("orders"),
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return "orders"
}

// Dependencies returns the modules this module needs.
func (m *Module) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives the catalog service container.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.catalog = catalog.NewCatalogAdapter(container)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	m.emit = func(event events.OrderPlacedEvent) error {
		return events.OrderPlacedV1.Publish(bus, event, nil)
	}
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderPlacedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "place", json.Unmarshal, json.Marshal, m.placeOrder,
	); err != nil {
		return fmt.Errorf("failed to register place service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "quick", json.Unmarshal, json.Marshal, m.quickOrder,
	); err != nil {
		return fmt.Errorf("failed to register quick service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"place", "quick"})
	return nil
}

// Start verifies the catalog dependency was injected.
func (m *Module) Start(_ context.Context) error {
	if m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, orders will not be announced")
	}
	m.logger.Info("Module started", "depends_on", "catalog")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// newReference returns a short order number such as "FW-7KQ2M9XD".
func (m *Module) newReference() string {
	return "FW-" + m.reference()
}
