// Package selection holds the node the viewer currently has selected.
package selection

import "sync"

// Holder stores the selected node id. The zero value has nothing selected.
type Holder struct {
	mu       sync.RWMutex
	id       string
	selected bool
}

// NewHolder creates an empty holder
func NewHolder() *Holder {
	return &Holder{}
}

// Select replaces the current selection
func (h *Holder) Select(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.id = id
	h.selected = true
}

// Clear drops the current selection
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.id = ""
	h.selected = false
}

// Current returns the selected id, if any
func (h *Holder) Current() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.id, h.selected
}
