package orders

import "context"

// OrderItem is one cart line as submitted by the storefront.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Color    string `json:"color,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

// PlaceOrderRequest is a cart checkout. Total is precomputed by the client.
type PlaceOrderRequest struct {
	Items []OrderItem `json:"items"`
	Name  string      `json:"name"`
	Phone string      `json:"phone"`
	Total int         `json:"total"`
}

// QuickOrderRequest orders a single product. Any client price is ignored.
type QuickOrderRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse acknowledges an accepted order.
type OrderResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Total     int    `json:"total"`
}

// OrdersPort is the interface other modules use to place orders.
type OrdersPort interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResponse, error)
	QuickOrder(ctx context.Context, req *QuickOrderRequest) (*OrderResponse, error)
}
