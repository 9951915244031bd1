// Package api exposes the storefront REST endpoints over Fiber.
package api

import (
	"context"
	"fmt"

	"github.com/example/footwear-wholesale/modules/assets"
	"github.com/example/footwear-wholesale/modules/catalog"
	"github.com/example/footwear-wholesale/modules/orders"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds the HTTP server settings.
type Config struct {
	Port         int
	SiteURL      string
	AllowOrigins string
	BodyLimit    int
}

// Module is the driving adapter that exposes the storefront API.
// It reaches the catalog and orders modules through their ports.
type Module struct {
	cfg      Config
	app      *fiber.App
	catalog  catalog.CatalogPort
	orders   orders.OrdersPort
	uploader assets.UploaderPort
	checks   map[string]mono.HealthCheckableModule
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	return &Module{
		cfg:    cfg,
		checks: make(map[string]mono.HealthCheckableModule),
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"catalog", "orders"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalog = catalog.NewCatalogAdapter(container)
	case "orders":
		m.orders = orders.NewOrdersAdapter(container)
	}
}

// SetPlugin receives the assets plugin before Start.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "assets" {
		return
	}
	assetsPlugin, ok := plugin.(*assets.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for assets",
			"alias", alias,
			"expected", "*assets.PluginModule")
		return
	}
	m.uploader = assetsPlugin.Port()
}

// AddHealthCheck includes a module in the /health snapshot.
func (m *Module) AddHealthCheck(name string, module mono.HealthCheckableModule) {
	m.checks[name] = module
}

// Start builds the Fiber app and starts listening.
// Returns an error if required dependencies are not set.
func (m *Module) Start(_ context.Context) error {
	if m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	if m.orders == nil {
		return fmt.Errorf("orders dependency not set")
	}
	if m.uploader == nil {
		m.logger.Warn("Assets plugin not set, uploads are disabled")
	}

	m.app = m.newApp()

	// Server availability is verified via Health() method.
	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// newApp configures middleware and routes on a fresh Fiber app.
func (m *Module) newApp() *fiber.App {
	cfg := fiber.Config{
		AppName:               "Footwear Wholesale",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	}
	if m.cfg.BodyLimit > 0 {
		cfg.BodyLimit = m.cfg.BodyLimit
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	m.setupRoutes(app)
	return app
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":    m.cfg.Port,
			"uploads": m.uploader != nil,
		},
	}
}

// errorHandler keeps internal error text off the wire.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok && e.Code < fiber.StatusInternalServerError {
		return c.Status(e.Code).JSON(ErrorResponse{
			Error:   "request_error",
			Message: e.Message,
		})
	}

	m.logger.Error("Request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(genericError)
}
