package plugin

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/config"
	"github.com/HerbHall/contactbook/internal/endpoint"
)

// testPlugin is a minimal module for testing.
type testPlugin struct {
	name     string
	initErr  error
	gotDeps  Dependencies
	inited   bool
	groups   []endpoint.Group
	seeded   int
	seedErr  error
	migrates []Migration
}

func newTestPlugin(name string) *testPlugin {
	return &testPlugin{
		name:     name,
		migrates: []Migration{{Version: 1, Description: "create " + name}},
		groups:   []endpoint.Group{{Prefix: "/api/" + name}},
	}
}

func (p *testPlugin) Name() string    { return p.name }
func (p *testPlugin) Version() string { return "1.0.0" }

func (p *testPlugin) Init(_ context.Context, deps Dependencies) error {
	p.gotDeps = deps
	p.inited = true
	return p.initErr
}

func (p *testPlugin) Migrations() []Migration  { return p.migrates }
func (p *testPlugin) Groups() []endpoint.Group { return p.groups }

// seedingPlugin adds Seeder to testPlugin.
type seedingPlugin struct{ *testPlugin }

func (p seedingPlugin) Seed(context.Context) error {
	p.seeded++
	return p.seedErr
}

// fakeStore records Migrate calls.
type fakeStore struct {
	migrated []string
	err      error
}

func (s *fakeStore) DB() *sql.DB { return nil }

func (s *fakeStore) Tx(context.Context, func(*sql.Tx) error) error { return nil }

func (s *fakeStore) Migrate(_ context.Context, module string, _ []Migration) error {
	s.migrated = append(s.migrated, module)
	return s.err
}

func testConfig(settings map[string]any) *config.Config {
	v := viper.New()
	for k, val := range settings {
		v.Set(k, val)
	}
	return config.New(v)
}

func TestRegister(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	p := newTestPlugin("alpha")
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Duplicate registration should fail.
	if err := reg.Register(p); err == nil {
		t.Fatal("Register() expected error for duplicate, got nil")
	}

	got, ok := reg.Get("alpha")
	if !ok || got != p {
		t.Fatalf("Get(alpha) = %v, %v", got, ok)
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatal("Get(missing) reported ok")
	}
}

func TestRegisterEmptyName(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	if err := reg.Register(&testPlugin{}); err == nil {
		t.Fatal("Register() expected error for empty name, got nil")
	}
}

func TestAllKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	for _, name := range []string{"c", "a", "b"} {
		if err := reg.Register(newTestPlugin(name)); err != nil {
			t.Fatal(err)
		}
	}

	var names []string
	for _, p := range reg.All() {
		names = append(names, p.Name())
	}
	if len(names) != 3 || names[0] != "c" || names[1] != "a" || names[2] != "b" {
		t.Errorf("All() order = %v, want [c a b]", names)
	}
}

func TestInitAllSkipsDisabled(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	on, off := newTestPlugin("on"), newTestPlugin("off")
	_ = reg.Register(on)
	_ = reg.Register(off)

	cfg := testConfig(map[string]any{
		"plugins.on.enabled":  true,
		"plugins.on.limit":    7,
		"plugins.off.enabled": false,
	})
	if err := reg.InitAll(context.Background(), Dependencies{Config: cfg, Logger: zap.NewNop()}); err != nil {
		t.Fatalf("InitAll() error = %v", err)
	}

	if !on.inited {
		t.Error("enabled plugin was not initialized")
	}
	if off.inited {
		t.Error("disabled plugin was initialized")
	}
	if got := on.gotDeps.Config.GetInt("limit"); got != 7 {
		t.Errorf("plugin config limit = %d, want 7 (scoped to plugins.on)", got)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].Name() != "on" {
		t.Errorf("Enabled() = %v, want [on]", enabled)
	}
	if _, ok := reg.AllGroups()["off"]; ok {
		t.Error("AllGroups() includes disabled plugin")
	}
	if len(reg.AllGroups()["on"]) != 1 {
		t.Error("AllGroups() missing enabled plugin")
	}
}

func TestInitAllError(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	p := newTestPlugin("broken")
	p.initErr = errors.New("boom")
	_ = reg.Register(p)

	cfg := testConfig(map[string]any{"plugins.broken.enabled": true})
	err := reg.InitAll(context.Background(), Dependencies{Config: cfg, Logger: zap.NewNop()})
	if !errors.Is(err, p.initErr) {
		t.Fatalf("InitAll() error = %v, want wrapping %v", err, p.initErr)
	}
	if len(reg.Enabled()) != 0 {
		t.Error("failed plugin reported as enabled")
	}
}

func TestMigrateAllAndSeedAll(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	seeder := seedingPlugin{newTestPlugin("seeder")}
	plain := newTestPlugin("plain")
	_ = reg.Register(seeder)
	_ = reg.Register(plain)

	cfg := testConfig(map[string]any{
		"plugins.seeder.enabled": true,
		"plugins.plain.enabled":  true,
	})
	ctx := context.Background()
	if err := reg.InitAll(ctx, Dependencies{Config: cfg, Logger: zap.NewNop()}); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	if err := reg.MigrateAll(ctx, store); err != nil {
		t.Fatalf("MigrateAll() error = %v", err)
	}
	if len(store.migrated) != 2 || store.migrated[0] != "seeder" || store.migrated[1] != "plain" {
		t.Errorf("migrated = %v, want [seeder plain]", store.migrated)
	}

	if err := reg.SeedAll(ctx); err != nil {
		t.Fatalf("SeedAll() error = %v", err)
	}
	if seeder.seeded != 1 {
		t.Errorf("seeded = %d, want 1", seeder.seeded)
	}

	store.err = errors.New("disk full")
	if err := reg.MigrateAll(ctx, store); !errors.Is(err, store.err) {
		t.Errorf("MigrateAll() error = %v, want wrapping %v", err, store.err)
	}
}
