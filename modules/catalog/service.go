package catalog

import (
	"context"
	"fmt"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/go-monolith/mono"
)

// listProducts handles the catalog.list service request.
func (m *Module) listProducts(ctx context.Context, _ ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	products, err := m.store.List(ctx)
	if err != nil {
		return ListProductsResponse{}, err
	}
	return ListProductsResponse{
		Products: products,
		Total:    len(products),
	}, nil
}

// getProduct handles the catalog.get service request.
func (m *Module) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (product.Product, error) {
	if req.ID == "" {
		return product.Product{}, fmt.Errorf("id is required")
	}
	p, err := m.store.Get(ctx, req.ID)
	if err != nil {
		return product.Product{}, err
	}
	return *p, nil
}

// createProduct handles the catalog.create service request.
func (m *Module) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (product.Product, error) {
	p, err := m.store.Create(ctx, &req.Fields)
	if err != nil {
		return product.Product{}, err
	}
	return *p, nil
}

// updateProduct handles the catalog.update service request.
func (m *Module) updateProduct(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (product.Product, error) {
	if req.ID == "" {
		return product.Product{}, fmt.Errorf("id is required")
	}
	p, err := m.store.Update(ctx, req.ID, &req.Patch)
	if err != nil {
		return product.Product{}, err
	}
	return *p, nil
}

// deleteProduct handles the catalog.delete service request.
func (m *Module) deleteProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductResponse, error) {
	if req.ID == "" {
		return DeleteProductResponse{Deleted: false}, fmt.Errorf("id is required")
	}
	if err := m.store.Delete(ctx, req.ID); err != nil {
		return DeleteProductResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteProductResponse{Deleted: true, ID: req.ID}, nil
}
