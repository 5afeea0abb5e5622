package model

import (
	"context"
	"fmt"
	"log/slog"

	"swipr/internal/domain"
	"swipr/internal/ports"
)

// Manager drives the model registry and keeps the process-wide handle
// in sync with the active row. Activation is the single write point
// for the handle.
type Manager struct {
	registry ports.ModelRegistry
	handle   *Handle
	apiKey   string

	// defaultEndpoint serves when no registry row is active, mirroring
	// the bundled default model of the original system. Empty means no
	// default; the handle stays clear and requests fall back.
	defaultEndpoint string

	logger *slog.Logger
}

// NewManager wires the registry, the shared handle and the configured
// default endpoint.
func NewManager(registry ports.ModelRegistry, handle *Handle, defaultEndpoint, apiKey string, logger *slog.Logger) *Manager {
	return &Manager{
		registry:        registry,
		handle:          handle,
		apiKey:          apiKey,
		defaultEndpoint: defaultEndpoint,
		logger:          logger,
	}
}

// LoadActive points the handle at the active registry model, the
// configured default endpoint if none is active, or clears it when
// neither exists. Called at startup and after activation.
func (m *Manager) LoadActive(ctx context.Context) error {
	active, err := m.registry.ActiveModel(ctx)
	if err != nil {
		return fmt.Errorf("load active model: %w", err)
	}

	switch {
	case active != nil:
		m.handle.Swap(NewClient(active.Endpoint, m.apiKey), active.Name)
		m.info("model loaded", "name", active.Name, "endpoint", active.Endpoint)
	case m.defaultEndpoint != "":
		m.handle.Swap(NewClient(m.defaultEndpoint, m.apiKey), "default")
		m.info("default model loaded", "endpoint", m.defaultEndpoint)
	default:
		m.handle.Clear()
		m.info("no model available, requests will use random fallback")
	}

	return nil
}

// Register adds a model to the registry without activating it.
func (m *Manager) Register(ctx context.Context, name, endpoint, metadata string) (int64, error) {
	return m.registry.RegisterModel(ctx, name, endpoint, metadata)
}

// Activate marks the model active and swaps the handle atomically.
// In-flight requests keep the snapshot they captured.
func (m *Manager) Activate(ctx context.Context, id int64) error {
	if err := m.registry.ActivateModel(ctx, id); err != nil {
		return err
	}
	return m.LoadActive(ctx)
}

// Delete removes an inactive model from the registry. The active
// model cannot be deleted.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	info, err := m.registry.ModelByID(ctx, id)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("model %d not found", id)
	}
	if info.Active {
		return fmt.Errorf("cannot delete active model %d", id)
	}
	return m.registry.DeleteModel(ctx, id)
}

// List returns all registered models.
func (m *Manager) List(ctx context.Context) ([]domain.ModelInfo, error) {
	return m.registry.ListModels(ctx)
}

func (m *Manager) info(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}
