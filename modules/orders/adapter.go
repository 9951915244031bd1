package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ordersAdapter implements OrdersPort over the orders module's services.
type ordersAdapter struct {
	container mono.ServiceContainer
}

// NewOrdersAdapter creates a new adapter for order services.
func NewOrdersAdapter(container mono.ServiceContainer) OrdersPort {
	if container == nil {
		panic("orders adapter requires non-nil ServiceContainer")
	}
	return &ordersAdapter{container: container}
}

// PlaceOrder submits a cart checkout via the place service.
func (a *ordersAdapter) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"place",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("place service call failed: %w", err)
	}
	return &resp, nil
}

// QuickOrder submits a single-product order via the quick service.
func (a *ordersAdapter) QuickOrder(ctx context.Context, req *QuickOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"quick",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("quick service call failed: %w", err)
	}
	return &resp, nil
}
