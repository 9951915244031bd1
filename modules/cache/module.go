package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

// PluginModule provides the catalog cache as a mono plugin.
// Plugins start before and stop after regular modules.
type PluginModule struct {
	container types.ServiceContainer
	storage   Storage
	service   CacheService
	redisAddr string
	prefix    string
	ttl       time.Duration
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a redis-backed cache plugin.
func NewPluginModule(redisAddr, prefix string, ttl time.Duration, logger types.Logger) *PluginModule {
	return &PluginModule{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       ttl,
		logger:    logger.WithModule("cache"),
	}
}

// NewPluginModuleWithStorage creates a cache plugin over an existing storage.
func NewPluginModuleWithStorage(s Storage, prefix string, ttl time.Duration, logger types.Logger) *PluginModule {
	m := &PluginModule{
		storage: s,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger.WithModule("cache"),
	}
	m.service = NewCacheService(s, prefix, ttl, m.logger)
	return m
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to redis unless a storage was injected.
func (m *PluginModule) Start(_ context.Context) error {
	if m.service != nil {
		m.logger.Info("Cache plugin started with injected storage", "prefix", m.prefix)
		return nil
	}

	host, port := parseRedisAddr(m.redisAddr)
	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 50,
	})
	m.service = NewCacheService(m.storage, m.prefix, m.ttl, m.logger)

	m.logger.Info("Cache plugin started", "redis", m.redisAddr, "prefix", m.prefix, "ttl", m.ttl.String())
	return nil
}

// Stop closes the storage connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.service == nil {
		return nil
	}
	if err := m.service.Close(); err != nil {
		return fmt.Errorf("failed to close cache storage: %w", err)
	}
	m.logger.Info("Cache plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the CacheService consumers use.
func (m *PluginModule) Port() CacheService {
	return m.service
}

// Health reports whether the storage answers a probe read.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := m.storage.GetWithContext(ctx, "__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.redisAddr,
			"prefix":     m.prefix,
			"ttl":        m.ttl.String(),
		},
	}
}

// parseRedisAddr splits "host:port", falling back to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
