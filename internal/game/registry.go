// Package game defines the playable-game contract and the registry the TUI
// builds its menu from.
package game

import (
	"fmt"
	"sort"
	"sync"
)

// Info describes a game for menus and the score store.
type Info struct {
	ID          string
	Name        string
	Description string
}

// Validate checks the identifying fields the registry and store rely on.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("game: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("game: name is required for %s", i.ID)
	}
	return nil
}

// Game is anything the arcade can launch. Engines keep their own state; the
// registry only cares about identity.
type Game interface {
	Info() Info
}

// Factory constructs a fresh game instance, typically seeding a new engine.
type Factory func() (Game, error)

// Registry maintains known game factories keyed by ID.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	infos     map[string]Info
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]Factory{},
		infos:     map[string]Info{},
	}
}

// Register installs a game factory. The info is captured up front so menus
// can list games without instantiating them.
func (r *Registry) Register(info Info, factory Factory) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("game: factory is required for %s", info.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[info.ID]; exists {
		return fmt.Errorf("game: %s already registered", info.ID)
	}
	r.factories[info.ID] = factory
	r.infos[info.ID] = info
	r.order = append(r.order, info.ID)
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(info Info, factory Factory) {
	if err := r.Register(info, factory); err != nil {
		panic(err)
	}
}

// Resolve constructs a game by ID.
func (r *Registry) Resolve(id string) (Game, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game: unknown id %s", id)
	}
	g, err := factory()
	if err != nil {
		return nil, err
	}
	if err := g.Info().Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Infos returns game descriptions in registration order.
func (r *Registry) Infos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, r.infos[id])
	}
	return infos
}

// IDs returns a sorted list of registered game identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
