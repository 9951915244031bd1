package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// catalogAdapter implements CatalogPort over the catalog module's services.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new adapter for catalog services.
// container is the ServiceContainer received via SetDependencyServiceContainer.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// ListProducts returns every product via the list service.
func (a *catalogAdapter) ListProducts(ctx context.Context) ([]product.Product, error) {
	var resp ListProductsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list",
		json.Marshal,
		json.Unmarshal,
		&ListProductsRequest{},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return resp.Products, nil
}

// GetProduct returns one product via the get service.
func (a *catalogAdapter) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var resp product.Product
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&GetProductRequest{ID: id},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	return &resp, nil
}

// CreateProduct creates a product via the create service.
func (a *catalogAdapter) CreateProduct(ctx context.Context, fields *product.Fields) (*product.Product, error) {
	var resp product.Product
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create",
		json.Marshal,
		json.Unmarshal,
		&CreateProductRequest{Fields: *fields},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateProduct applies a partial update via the update service.
func (a *catalogAdapter) UpdateProduct(ctx context.Context, id string, patch *product.Patch) (*product.Product, error) {
	var resp product.Product
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update",
		json.Marshal,
		json.Unmarshal,
		&UpdateProductRequest{ID: id, Patch: *patch},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteProduct removes a product via the delete service.
func (a *catalogAdapter) DeleteProduct(ctx context.Context, id string) error {
	var resp DeleteProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&DeleteProductRequest{ID: id},
		&resp,
	); err != nil {
		return fmt.Errorf("delete service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("product not deleted: %s", id)
	}
	return nil
}
