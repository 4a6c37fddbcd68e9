package connector

import (
	"fmt"
	"sync"

	"github.com/MaleyDenis/infoBro/model"
)

// Registry maps connector IDs to their instances. Registration order is
// preserved so run-all enumeration and its logs are stable.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]Connector
	order      []string
}

func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[string]Connector),
	}
}

// Register adds a connector under its ID. Registering the same ID twice
// is a configuration bug and fails.
func (r *Registry) Register(c Connector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := c.ID()
	if _, exists := r.connectors[id]; exists {
		return fmt.Errorf("connector %s already registered", id)
	}

	r.connectors[id] = c
	r.order = append(r.order, id)
	return nil
}

// Get returns the connector for an ID.
func (r *Registry) Get(id string) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.connectors[id]
	if !exists {
		return nil, fmt.Errorf("connector %s: %w", id, model.ErrNotFound)
	}
	return c, nil
}

// All returns every registered connector in registration order.
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Connector, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.connectors[id])
	}
	return all
}
