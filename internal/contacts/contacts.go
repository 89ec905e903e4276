// Package contacts is the ContactBook module serving contacts and their
// phones over HTTP.
package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/auth"
	"github.com/HerbHall/contactbook/internal/plugin"
	"github.com/HerbHall/contactbook/internal/services"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin = (*Module)(nil)
	_ plugin.Seeder = (*Module)(nil)
)

// defaultReadOnlyIDs are the demo contacts that cannot be changed unless
// plugins.contacts.read_only_ids says otherwise.
var defaultReadOnlyIDs = []int64{2, 3}

// Module implements the contacts module.
type Module struct {
	logger      *zap.Logger
	contacts    services.ContactRepository
	phones      services.PhoneRepository
	verifier    *auth.Verifier
	readOnlyIDs []int64
	notFound    *prometheus.CounterVec
}

// New creates a new contacts module instance.
func New() *Module {
	return &Module{logger: zap.NewNop()}
}

func (m *Module) Name() string    { return "contacts" }
func (m *Module) Version() string { return "1.0.0" }

// Init wires the module to the store, the token verifier and metrics.
func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	if deps.Store == nil {
		return errors.New("contacts: store is required")
	}
	if deps.Logger != nil {
		m.logger = deps.Logger
	}
	m.contacts = services.NewSQLiteContactRepository(deps.Store)
	m.phones = services.NewSQLitePhoneRepository(deps.Store)
	m.verifier = deps.Auth

	m.readOnlyIDs = defaultReadOnlyIDs
	if deps.Config.IsSet("read_only_ids") {
		ids, err := deps.Config.GetIntSliceE("read_only_ids")
		if err != nil {
			return fmt.Errorf("contacts: %w", err)
		}
		m.readOnlyIDs = make([]int64, 0, len(ids))
		for _, id := range ids {
			m.readOnlyIDs = append(m.readOnlyIDs, int64(id))
		}
	}

	m.notFound = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contacts_not_found_total",
		Help: "Contacts API responses answered with 404, by route.",
	}, []string{"route"})
	if deps.Metrics != nil {
		if err := deps.Metrics.Register(m.notFound); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return fmt.Errorf("contacts: register metrics: %w", err)
			}
			m.notFound = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}

	if m.verifier == nil {
		m.logger.Warn("no token verifier configured; phone routes will reject every request")
	}
	m.logger.Info("contacts module initialized", zap.Int64s("read_only_ids", m.readOnlyIDs))
	return nil
}

func (m *Module) Migrations() []plugin.Migration {
	return migrations()
}

// Seed replaces all contacts with the built-in demo data.
func (m *Module) Seed(ctx context.Context) error {
	demo, err := DemoContacts()
	if err != nil {
		return err
	}
	if err := m.contacts.Seed(ctx, demo); err != nil {
		return fmt.Errorf("contacts: seed: %w", err)
	}
	m.logger.Info("demo contacts seeded", zap.Int("count", len(demo)))
	return nil
}
