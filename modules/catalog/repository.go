package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/footwear-wholesale/domain/product"
	"gorm.io/gorm"
)

// Repository provides access to product storage.
type Repository struct {
	db     *gorm.DB
	compat *Compat
}

// NewRepository creates a new product repository over the detected table layout.
func NewRepository(db *gorm.DB, compat *Compat) *Repository {
	if compat == nil {
		compat = DetectCompat(db)
	}
	return &Repository{db: db, compat: compat}
}

// FindAll retrieves all products.
func (r *Repository) FindAll(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := r.compat.Read(r.db.WithContext(ctx)).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	for i := range products {
		r.compat.Fill(&products[i])
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// FindByID retrieves a product by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := r.compat.Read(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	r.compat.Fill(&p)
	return &p, nil
}

// Create saves a new product.
func (r *Repository) Create(ctx context.Context, p *product.Product) error {
	if err := r.compat.Write(r.db.WithContext(ctx)).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the supplied columns of an existing product.
// Columns the table lacks are dropped first; if nothing is left the call is a no-op.
func (r *Repository) Update(ctx context.Context, id string, cols map[string]any) error {
	r.compat.DropMissing(cols)
	if len(cols) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&product.Product{}).Where("id = ?", id).Updates(cols)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete permanently removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&product.Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return product.ErrNotFound
	}
	return nil
}
