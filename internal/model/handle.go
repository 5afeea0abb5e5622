package model

import (
	"sync/atomic"

	"swipr/internal/ports"
)

// Handle is the process-wide, hot-swappable reference to the active
// relevance model. Swaps are atomic: a request that captured a model
// via Current keeps using that snapshot even if an activation replaces
// the handle mid-flight.
type Handle struct {
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	model ports.RelevanceModel
	name  string
}

// NewHandle returns an empty handle; Current is nil until a model is
// swapped in.
func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the active model, or nil when none is loaded.
func (h *Handle) Current() ports.RelevanceModel {
	snap := h.current.Load()
	if snap == nil {
		return nil
	}
	return snap.model
}

// CurrentName returns the active model's registry name, or empty.
func (h *Handle) CurrentName() string {
	snap := h.current.Load()
	if snap == nil {
		return ""
	}
	return snap.name
}

// Swap atomically replaces the active model.
func (h *Handle) Swap(m ports.RelevanceModel, name string) {
	h.current.Store(&snapshot{model: m, name: name})
}

// Clear removes the active model; subsequent requests degrade to the
// fallback path.
func (h *Handle) Clear() {
	h.current.Store(nil)
}
