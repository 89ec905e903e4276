// Package plugin defines ContactBook modules and the registry that wires
// them to the store and the HTTP server.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/endpoint"
)

type entry struct {
	plugin  Plugin
	enabled bool
}

// Registry owns module lifecycle: Register, then InitAll, MigrateAll and
// SeedAll. Registration order is kept throughout.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger}
}

func (r *Registry) lookup(name string) *entry {
	i := slices.IndexFunc(r.entries, func(e *entry) bool { return e.plugin.Name() == name })
	if i < 0 {
		return nil
	}
	return r.entries[i]
}

// Register adds p. Names must be non-empty and unique.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if name == "" {
		return errors.New("plugin name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookup(name) != nil {
		return fmt.Errorf("plugin %q already registered", name)
	}
	r.entries = append(r.entries, &entry{plugin: p})
	r.logger.Info("plugin registered", zap.String("name", name), zap.String("version", p.Version()))
	return nil
}

// InitAll hands each module its plugins.<name> config subtree and a logger
// named after it. A module with plugins.<name>.enabled=false stays out of
// every later stage.
func (r *Registry) InitAll(ctx context.Context, deps Dependencies) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		name := e.plugin.Name()
		key := "plugins." + name
		if !deps.Config.GetBool(key + ".enabled") {
			r.logger.Info("plugin disabled, skipping", zap.String("name", name))
			continue
		}

		scoped := deps
		scoped.Config = deps.Config.Sub(key)
		scoped.Logger = deps.Logger.Named(name)
		if err := e.plugin.Init(ctx, scoped); err != nil {
			return fmt.Errorf("init plugin %q: %w", name, err)
		}
		e.enabled = true
		r.logger.Info("plugin initialized", zap.String("name", name))
	}
	return nil
}

func (r *Registry) MigrateAll(ctx context.Context, store Store) error {
	for _, p := range r.Enabled() {
		if err := store.Migrate(ctx, p.Name(), p.Migrations()); err != nil {
			return fmt.Errorf("migrate plugin %q: %w", p.Name(), err)
		}
	}
	return nil
}

// SeedAll runs Seed on the enabled modules that implement Seeder.
func (r *Registry) SeedAll(ctx context.Context) error {
	for _, p := range r.Enabled() {
		seeder, ok := p.(Seeder)
		if !ok {
			continue
		}
		r.logger.Info("seeding plugin data", zap.String("name", p.Name()))
		if err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed plugin %q: %w", p.Name(), err)
		}
	}
	return nil
}

func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e := r.lookup(name); e != nil {
		return e.plugin, true
	}
	return nil, false
}

// All lists every registered module.
func (r *Registry) All() []Plugin {
	return r.collect(func(*entry) bool { return true })
}

// Enabled lists the modules InitAll brought up.
func (r *Registry) Enabled() []Plugin {
	return r.collect(func(e *entry) bool { return e.enabled })
}

func (r *Registry) collect(keep func(*entry) bool) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e.plugin)
		}
	}
	return out
}

// AllGroups maps each enabled module that exposes routes to its groups.
func (r *Registry) AllGroups() map[string][]endpoint.Group {
	groups := make(map[string][]endpoint.Group)
	for _, p := range r.Enabled() {
		if g := p.Groups(); len(g) > 0 {
			groups[p.Name()] = g
		}
	}
	return groups
}
