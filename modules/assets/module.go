// Package assets forwards uploaded images to the external asset host.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// DefaultEndpoint is the image-hosting upload endpoint.
const DefaultEndpoint = "https://api.imgbb.com/1/upload"

// PluginModule provides the uploader as a mono plugin.
type PluginModule struct {
	container types.ServiceContainer
	uploader  *Uploader
	endpoint  string
	apiKey    string
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates an assets plugin. An empty endpoint selects DefaultEndpoint.
func NewPluginModule(endpoint, apiKey string, timeout time.Duration, logger types.Logger) *PluginModule {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &PluginModule{
		uploader: NewUploader(endpoint, apiKey, timeout),
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logger.WithModule("assets"),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "assets"
}

// Start logs the configured endpoint. The uploader exists from construction
// so Port can be handed out before Start.
func (m *PluginModule) Start(_ context.Context) error {
	if m.apiKey == "" {
		m.logger.Warn("Asset host API key not configured, uploads will be rejected by the host")
	}
	m.logger.Info("Assets plugin started", "endpoint", m.endpoint)
	return nil
}

// Stop releases idle connections.
func (m *PluginModule) Stop(_ context.Context) error {
	m.uploader.client.CloseIdleConnections()
	m.logger.Info("Assets plugin stopped")
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

// Port returns the uploader consumers use.
func (m *PluginModule) Port() UploaderPort {
	return m.uploader
}

// Health reports the upload target. Uploads are optional, so a missing API key
// is a detail of a healthy status rather than a failure.
func (m *PluginModule) Health(_ context.Context) mono.HealthStatus {
	if m.apiKey == "" {
		return mono.HealthStatus{
			Healthy: true,
			Message: "uploads disabled: asset host API key not configured",
			Details: map[string]any{"configured": false},
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: fmt.Sprintf("forwarding to %s", m.endpoint),
		Details: map[string]any{"configured": true},
	}
}
