package catalog

import (
	"context"

	"github.com/example/footwear-wholesale/domain/product"
)

// ListProductsRequest is the request for listing products.
type ListProductsRequest struct{}

// ListProductsResponse is the response containing every product.
type ListProductsResponse struct {
	Products []product.Product `json:"products"`
	Total    int               `json:"total"`
}

// GetProductRequest is the request for getting a product.
type GetProductRequest struct {
	ID string `json:"id"`
}

// CreateProductRequest is the request for creating a product.
type CreateProductRequest struct {
	Fields product.Fields `json:"fields"`
}

// UpdateProductRequest is the request for a partial product update.
type UpdateProductRequest struct {
	ID    string        `json:"id"`
	Patch product.Patch `json:"patch"`
}

// DeleteProductRequest is the request for deleting a product.
type DeleteProductRequest struct {
	ID string `json:"id"`
}

// DeleteProductResponse is the response after deleting a product.
type DeleteProductResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// CatalogPort is the interface other modules use to reach the product store.
type CatalogPort interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	CreateProduct(ctx context.Context, fields *product.Fields) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, patch *product.Patch) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
