package catalog

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/example/footwear-wholesale/modules/cache"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

const cacheKeyList = "list"

// cacheKeyByID returns the cache key for a single product.
func cacheKeyByID(id string) string {
	return "id:" + id
}

// Store is the product store: repository calls wrapped with a per-attempt
// acquisition timeout, bounded retries, and an optional cache-aside layer.
type Store struct {
	repo           *Repository
	retry          *Retrier
	cache          cache.CacheService
	acquireTimeout time.Duration
	sfGroup        singleflight.Group
	epoch          atomic.Uint64
	logger         types.Logger
}

// NewStore creates a Store. A nil cache disables caching.
func NewStore(repo *Repository, retry *Retrier, c cache.CacheService, acquireTimeout time.Duration, logger types.Logger) *Store {
	return &Store{
		repo:           repo,
		retry:          retry,
		cache:          c,
		acquireTimeout: acquireTimeout,
		logger:         logger,
	}
}

// run executes fn under the retry policy, giving each attempt its own timeout.
func (s *Store) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.retry.Do(op, func() error {
		attemptCtx := ctx
		if s.acquireTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
			defer cancel()
		}
		return fn(attemptCtx)
	})
}

// List returns every product. Order is unspecified.
func (s *Store) List(ctx context.Context) ([]product.Product, error) {
	if s.cache != nil {
		var cached []product.Product
		found, err := s.cache.Get(ctx, cacheKeyList, &cached)
		if err != nil {
			s.logger.Warn("Cache read failed", "key", cacheKeyList, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	epoch := s.epoch.Load()
	v, err, _ := s.sfGroup.Do(flightKey(cacheKeyList, epoch), func() (any, error) {
		var products []product.Product
		if err := s.run(ctx, "list", func(ctx context.Context) error {
			var err error
			products, err = s.repo.FindAll(ctx)
			return err
		}); err != nil {
			return nil, err
		}
		s.fill(ctx, epoch, cacheKeyList, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]product.Product), nil
}

// Get returns one product or product.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*product.Product, error) {
	key := cacheKeyByID(id)
	if s.cache != nil {
		var cached product.Product
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Cache read failed", "key", key, "error", err)
		}
		if found {
			return &cached, nil
		}
	}

	v, err, _ := s.sfGroup.Do(flightKey(key, s.epoch.Load()), func() (any, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*product.Product)
	return &p, nil
}

// load reads a product from the repository and populates the cache.
func (s *Store) load(ctx context.Context, id string) (*product.Product, error) {
	epoch := s.epoch.Load()
	var p *product.Product
	if err := s.run(ctx, "get", func(ctx context.Context) error {
		var err error
		p, err = s.repo.FindByID(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	s.fill(ctx, epoch, cacheKeyByID(id), p)
	return p, nil
}

// Create validates the fields, applies defaults, and persists a new product.
func (s *Store) Create(ctx context.Context, fields *product.Fields) (*product.Product, error) {
	p, err := fields.Build()
	if err != nil {
		return nil, err
	}

	if err := s.run(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	}); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("Product created", "id", p.ID, "sku", p.SKU)
	return p, nil
}

// Update applies the supplied fields and returns the stored record.
// An empty patch returns the record unchanged.
func (s *Store) Update(ctx context.Context, id string, patch *product.Patch) (*product.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	cols, err := patch.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.run(ctx, "update", func(ctx context.Context) error {
		return s.repo.Update(ctx, id, cols)
	}); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("Product updated", "id", id, "fields", len(cols))
	return s.load(ctx, id)
}

// Delete permanently removes a product.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.run(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info("Product deleted", "id", id)
	return nil
}

// flightKey scopes a singleflight call to one invalidation epoch, so a read
// that starts after a mutation never joins a read of the older rows.
func flightKey(key string, epoch uint64) string {
	return key + "@" + strconv.FormatUint(epoch, 10)
}

// fill caches a value read during epoch. A value read before a mutation is
// not cached, or is removed again if the mutation lands while it is written.
func (s *Store) fill(ctx context.Context, epoch uint64, key string, value any) {
	if s.cache == nil || s.epoch.Load() != epoch {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("Cache write failed", "key", key, "error", err)
		return
	}
	if s.epoch.Load() != epoch {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Cache delete failed", "key", key, "error", err)
		}
	}
}

// invalidate starts a new epoch and clears the cache namespace.
// It must run after the mutation is committed.
func (s *Store) invalidate(ctx context.Context) {
	s.epoch.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("Cache invalidation failed", "error", err)
	}
}
