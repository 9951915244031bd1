// Package catalog provides the product store as a mono module.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/example/footwear-wholesale/domain/user"
	"github.com/example/footwear-wholesale/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the store settings.
type Config struct {
	Driver           string
	DSN              string
	AutoMigrate      bool
	Debug            bool
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	ConnMaxIdleTime  time.Duration
	AcquireTimeout   time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	OperatorUsername string
	OperatorPassword string
}

// Module provides product management services via GORM.
type Module struct {
	cfg         Config
	db          *gorm.DB
	compat      *Compat
	store       *Store
	cachePlugin *cache.PluginModule
	logger      types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
)

// NewModule creates a new catalog module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	return &Module{
		cfg:    cfg,
		logger: logger.WithModule("catalog"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetPlugin receives the optional cache plugin before Start.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "cache" {
		return
	}
	cachePlugin, ok := plugin.(*cache.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for cache",
			"alias", alias,
			"expected", "*cache.PluginModule")
		return
	}
	m.cachePlugin = cachePlugin
	m.logger.Info("Cache plugin injected")
}

// RegisterServices registers request-reply services in the service container.
// Names are prefixed by the framework, so "list" becomes "services.catalog.list".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateProduct,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteProduct,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"list", "get", "create", "update", "delete"})
	return nil
}

// Start opens the database, configures the pool, and prepares the store.
func (m *Module) Start(ctx context.Context) error {
	m.logger.Info("Connecting to database", "driver", m.cfg.Driver)

	db, err := Open(m.cfg)
	if err != nil {
		return err
	}
	m.db = db

	if m.cfg.AutoMigrate {
		if err := m.migrate(); err != nil {
			return err
		}
	}

	m.compat = DetectCompat(m.db)
	if m.compat.Legacy() {
		m.logger.Warn("Products table lacks optional columns, defaults will be substituted",
			"missing", m.compat.Missing())
	}

	seeded, err := SeedOperator(ctx, m.db, m.cfg.OperatorUsername, m.cfg.OperatorPassword)
	if err != nil {
		return err
	}
	if seeded {
		m.logger.Info("Operator account created", "username", m.cfg.OperatorUsername)
	}

	var c cache.CacheService
	if m.cachePlugin != nil {
		c = m.cachePlugin.Port()
	}
	m.store = NewStore(
		NewRepository(m.db, m.compat),
		NewRetrier(m.cfg.RetryAttempts, m.cfg.RetryDelay, m.logger),
		c,
		m.cfg.AcquireTimeout,
		m.logger,
	)

	m.logger.Info("Module started", "layout", m.compat.String(), "cache", c != nil)
	return nil
}

// migrate creates or extends the products and users tables.
func (m *Module) migrate() error {
	if err := m.db.AutoMigrate(&product.Product{}, &user.User{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.logger.Info("Database connection closed")
	return nil
}

// Store returns the product store.
func (m *Module) Store() *Store {
	return m.store
}

// Health pings the database and reports pool statistics.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	stats := sqlDB.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":           m.cfg.Driver,
			"layout":           m.compat.String(),
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"wait_count":       stats.WaitCount,
		},
	}
}

// Open connects with the configured driver and applies pool limits.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return db, nil
}
