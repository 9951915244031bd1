package catalogclient

import (
	"context"
	"strconv"
	"sync"

	"github.com/example/footwear-wholesale/domain/product"
	"golang.org/x/sync/singleflight"
)

// ProductsKey is the single cache entry holding the whole collection.
const ProductsKey = "products"

// ProductAPI is the subset of the storefront API the cache needs.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, fields *product.Fields) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, patch *product.Patch) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Cache shares one product collection between all consumers of a session.
// Mutations go straight to the API and invalidate the entry on success;
// the next read fetches again.
type Cache struct {
	api   ProductAPI
	group singleflight.Group

	mu       sync.RWMutex
	products []product.Product
	loaded   bool
	loading  bool
	err      error
	gen      uint64
}

// NewCache creates an empty cache over api.
func NewCache(api ProductAPI) *Cache {
	return &Cache{api: api}
}

// Products returns the cached collection, fetching it once if needed.
// Concurrent callers share a single fetch.
func (c *Cache) Products(ctx context.Context) ([]product.Product, error) {
	if products, ok := c.cached(); ok {
		return products, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	v, err, _ := c.group.Do(ProductsKey+":"+strconv.FormatUint(gen, 10), func() (any, error) {
		if products, ok := c.cached(); ok {
			return products, nil
		}
		c.setLoading(gen)
		products, err := c.api.ListProducts(ctx)
		c.store(gen, products, err)
		return products, err
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]product.Product)), nil
}

// Loading reports whether a fetch is in flight.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the error of the last fetch, or nil once a fetch succeeds.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Invalidate drops the entry. In-flight fetches started before the call are not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.products = nil
	c.loaded = false
	c.loading = false
}

// Create creates a product and invalidates the entry on success.
func (c *Cache) Create(ctx context.Context, fields *product.Fields) (*product.Product, error) {
	p, err := c.api.CreateProduct(ctx, fields)
	if err != nil {
		return nil, err
	}
	c.Invalidate()
	return p, nil
}

// Update applies a partial update and invalidates the entry on success.
func (c *Cache) Update(ctx context.Context, id string, patch *product.Patch) (*product.Product, error) {
	p, err := c.api.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.Invalidate()
	return p, nil
}

// Delete deletes a product and invalidates the entry on success.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *Cache) cached() ([]product.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	return clone(c.products), true
}

func (c *Cache) setLoading(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.loading = true
	}
}

func (c *Cache) store(gen uint64, products []product.Product, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.loading = false
	c.err = err
	if err == nil {
		c.products = products
		c.loaded = true
	}
}

func clone(products []product.Product) []product.Product {
	out := make([]product.Product, len(products))
	copy(out, products)
	return out
}
