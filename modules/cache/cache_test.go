package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// memoryStorage is an in-memory Storage without a redis connection.
type memoryStorage struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	failOn string
	closed bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (s *memoryStorage) GetWithContext(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "get" {
		return nil, errors.New("connection refused")
	}
	return s.data[key], nil
}

func (s *memoryStorage) SetWithContext(_ context.Context, key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = val
	s.ttls[key] = exp
	return nil
}

func (s *memoryStorage) DeleteWithContext(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryStorage) ResetWithContext(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}

func (s *memoryStorage) Close() error {
	s.closed = true
	return nil
}

type item struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func TestCacheService_GetSet(t *testing.T) {
	storage := newMemoryStorage()
	svc := NewCacheService(storage, "catalog:", 5*time.Minute, &mockLogger{})
	ctx := context.Background()

	var got item
	found, err := svc.Get(ctx, "id:1", &got)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := svc.Set(ctx, "id:1", item{Name: "Loafer", Price: 900}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := storage.data["catalog:id:1"]; !ok {
		t.Error("expected key to be stored with prefix")
	}
	if storage.ttls["catalog:id:1"] != 5*time.Minute {
		t.Errorf("expected default ttl, got %v", storage.ttls["catalog:id:1"])
	}

	found, err = svc.Get(ctx, "id:1", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if got.Name != "Loafer" || got.Price != 900 {
		t.Errorf("unexpected value %+v", got)
	}

	if err := svc.SetWithTTL(ctx, "id:2", item{Name: "Boot"}, time.Second); err != nil {
		t.Fatalf("SetWithTTL() error = %v", err)
	}
	if storage.ttls["catalog:id:2"] != time.Second {
		t.Errorf("expected custom ttl, got %v", storage.ttls["catalog:id:2"])
	}

	if err := svc.Delete(ctx, "id:1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	found, _ = svc.Get(ctx, "id:1", &got)
	if found {
		t.Error("expected miss after delete")
	}
}

func TestCacheService_Errors(t *testing.T) {
	storage := newMemoryStorage()
	svc := NewCacheService(storage, "catalog:", time.Minute, &mockLogger{})
	ctx := context.Background()

	if err := svc.Set(ctx, "bad", make(chan int)); err == nil {
		t.Error("expected marshal error")
	}

	storage.data["catalog:corrupt"] = []byte("{not json")
	var got item
	if _, err := svc.Get(ctx, "corrupt", &got); err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("expected unmarshal error, got %v", err)
	}

	storage.failOn = "get"
	if _, err := svc.Get(ctx, "id:1", &got); err == nil {
		t.Error("expected storage error to surface")
	}
}

func TestCacheService_InvalidateAllWithoutRedis(t *testing.T) {
	storage := newMemoryStorage()
	svc := NewCacheService(storage, "catalog:", time.Minute, &mockLogger{})
	ctx := context.Background()

	_ = svc.Set(ctx, "list", []item{{Name: "a"}})
	_ = svc.Set(ctx, "id:1", item{Name: "a"})

	if err := svc.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}
	if len(storage.data) != 0 {
		t.Errorf("expected storage reset, %d keys remain", len(storage.data))
	}
}

func TestPluginModule_WithStorage(t *testing.T) {
	storage := newMemoryStorage()
	m := NewPluginModuleWithStorage(storage, "catalog:", time.Minute, &mockLogger{})
	ctx := context.Background()

	if m.Name() != "cache" {
		t.Errorf("expected name cache, got %q", m.Name())
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.Port() == nil {
		t.Fatal("expected port")
	}
	if h := m.Health(ctx); !h.Healthy {
		t.Errorf("expected healthy, got %q", h.Message)
	}

	storage.failOn = "get"
	if h := m.Health(ctx); h.Healthy {
		t.Error("expected unhealthy when storage fails")
	}

	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !storage.closed {
		t.Error("expected storage to be closed")
	}
}

func TestParseRedisAddr(t *testing.T) {
	tests := []struct {
		addr     string
		wantHost string
		wantPort int
	}{
		{"localhost:6379", "localhost", 6379},
		{"redis.internal:6380", "redis.internal", 6380},
		{":7000", "127.0.0.1", 7000},
		{"garbage", "127.0.0.1", 6379},
		{"host:notaport", "host", 6379},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port := parseRedisAddr(tt.addr)
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("parseRedisAddr(%q) = %s:%d, want %s:%d", tt.addr, host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}
