package coordinator

import (
	"sync"

	"github.com/agentstation/utc"
)

// SchemaChange describes a change of a resource's field paths observed while
// initializing from a sample.
type SchemaChange struct {
	ResourceID string   `json:"resourceId" yaml:"resourceId"`
	Added      []string `json:"added,omitempty" yaml:"added,omitempty"`
	Removed    []string `json:"removed,omitempty" yaml:"removed,omitempty"`
	DetectedAt utc.Time `json:"detectedAt" yaml:"detectedAt"`
}

// SchemaChangeHook is called after a schema change was detected.
type SchemaChangeHook func(change SchemaChange)

// hooks manages schema change callbacks
type hooks struct {
	mu       sync.RWMutex
	onChange []SchemaChangeHook
}

func (h *hooks) add(fn SchemaChangeHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

func (h *hooks) trigger(change SchemaChange) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onChange {
		hook(change)
	}
}
