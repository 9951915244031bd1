package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gofiber/storage/redis/v3"
)

// Integration tests need Redis on localhost:6379 and are skipped otherwise.
const testRedisAddr = "localhost:6379"

// checkRedisAvailable skips the test when Redis is unreachable.
// gofiber/storage/redis panics on connection failure, so we check first.
func checkRedisAvailable(t *testing.T) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", testRedisAddr, 2*time.Second)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	conn.Close()
}

func TestRedis_InvalidateAllIsPrefixScoped(t *testing.T) {
	checkRedisAvailable(t)

	storage := redis.New(redis.Config{
		Host: "localhost",
		Port: 6379,
	})
	defer storage.Close()

	ctx := context.Background()
	catalog := NewCacheService(storage, "test-catalog:", time.Minute, &mockLogger{})
	other := NewCacheService(storage, "test-other:", time.Minute, &mockLogger{})
	t.Cleanup(func() {
		_ = catalog.InvalidateAll(ctx)
		_ = other.InvalidateAll(ctx)
	})

	if err := catalog.Set(ctx, "list", []item{{Name: "Loafer"}}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := catalog.Set(ctx, "id:1", item{Name: "Loafer"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := other.Set(ctx, "keep", item{Name: "Boot"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := catalog.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}

	var got item
	if found, _ := catalog.Get(ctx, "id:1", &got); found {
		t.Error("expected catalog key to be removed")
	}
	if found, _ := other.Get(ctx, "keep", &got); !found {
		t.Error("expected key under another prefix to survive")
	}
}
