// Package drivers contains the built-in storage drivers and the registry that
// builds them from raw JSON source definitions.
package drivers

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bridgefs/bridgefs"
)

// Factory builds a Driver from its raw JSON source definition.
type Factory func(raw []byte) (bridgefs.Driver, error)

// Registry ties driver factories to a "type" key. Each driver type should be
// registered during app init; the first registration for a key wins.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register ties a factory to a type key. Duplicate registrations are ignored.
func (r *Registry) Register(driverType string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[driverType]; ok {
		return
	}
	r.factories[driverType] = f
}

// New picks the right factory based on the "type" field of raw and builds the
// driver from it.
func (r *Registry) New(raw []byte) (bridgefs.Driver, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	if meta.Type == "" {
		return nil, fmt.Errorf("driver definition missing type field")
	}

	r.mu.RLock()
	f, ok := r.factories[meta.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no factory for %q", meta.Type)
	}
	return f(raw)
}

// RegisterBuiltins registers every driver type shipped with this module.
func RegisterBuiltins(r *Registry) {
	RegisterLocal(r)
	RegisterMemory(r)
}
