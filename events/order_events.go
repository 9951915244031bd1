package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderKind tells a cart checkout apart from a single-product quick order.
type OrderKind string

// Order kinds.
const (
	OrderKindCart  OrderKind = "cart"
	OrderKindQuick OrderKind = "quick"
)

// OrderLine is one line of a placed order.
type OrderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Color    string `json:"color,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

// OrderPlacedEvent is emitted once per accepted order. It is never persisted.
type OrderPlacedEvent struct {
	Reference     string      `json:"reference"`
	Kind          OrderKind   `json:"kind"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Items         []OrderLine `json:"items"`
	Total         int         `json:"total"`
	PlacedAt      time.Time   `json:"placed_at"`
}

// OrderPlacedV1 is the typed event definition for placed orders.
// Subject: events.orders.v1.order-placed
var OrderPlacedV1 = helper.EventDefinition[OrderPlacedEvent](
	"orders", "OrderPlaced", "v1",
)
