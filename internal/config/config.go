// Package config loads ContactBook configuration with Viper and exposes a
// nil-safe accessor used by modules.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides, so
// server.port becomes CONTACTBOOK_SERVER_PORT.
const EnvPrefix = "CONTACTBOOK"

// Config wraps a *viper.Viper. A nil *Config and a Config built from a nil
// Viper return zero values for every key.
type Config struct {
	v *viper.Viper
}

// New wraps v.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load reads the file at path (if any) on top of the built-in defaults and
// environment overrides.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	return v, nil
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 0.0)
	v.SetDefault("server.rate_burst", 20)

	v.SetDefault("database.path", "contactbook.db")
	v.SetDefault("database.reseed", true)

	v.SetDefault("plugins.contacts.enabled", true)
	v.SetDefault("plugins.contacts.read_only_ids", []int{2, 3})

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.issuer", "contactbook")
	v.SetDefault("auth.audience", "contactbook-api")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

func (c *Config) GetString(key string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

func (c *Config) GetFloat64(key string) float64 {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetFloat64(key)
}

func (c *Config) GetBool(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

func (c *Config) GetDuration(key string) time.Duration {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

func (c *Config) GetIntSlice(key string) []int {
	ids, _ := c.GetIntSliceE(key)
	return ids
}

// GetIntSliceE also accepts the string form environment overrides arrive
// in: integers separated by commas or spaces.
func (c *Config) GetIntSliceE(key string) ([]int, error) {
	if c == nil || c.v == nil {
		return nil, nil
	}
	raw := c.v.Get(key)
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return cast.ToIntSliceE(raw)
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", key, f)
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *Config) IsSet(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the subtree rooted at key. A missing subtree yields an empty
// Config rather than nil.
func (c *Config) Sub(key string) *Config {
	if c == nil || c.v == nil {
		return &Config{}
	}
	return &Config{v: c.v.Sub(key)}
}

// Unmarshal decodes the whole tree into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	if c == nil || c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
