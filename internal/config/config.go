// Package config loads the server configuration from defaults, an optional
// YAML file, BLOG_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables. BLOG_DATABASE_URL maps to
// database.url.
const EnvPrefix = "BLOG_"

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	JWT       JWTConfig       `koanf:"jwt"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	OIDC      OIDCConfig      `koanf:"oidc"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// DatabaseConfig selects the storage driver and its pool.
type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// JWTConfig signs and bounds access tokens.
type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Issuer string        `koanf:"issuer"`
	TTL    time.Duration `koanf:"ttl"`
}

// RedisConfig enables the shared token denylist when Addr is set.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// RateLimitConfig throttles login attempts per client IP. Zero disables it.
type RateLimitConfig struct {
	LoginRPS   float64 `koanf:"login_rps"`
	LoginBurst int     `koanf:"login_burst"`
}

// OIDCConfig enables single sign-on through an OpenID Connect provider.
type OIDCConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Issuer       string `koanf:"issuer"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

// BootstrapConfig describes the account created on an empty database.
type BootstrapConfig struct {
	Name     string `koanf:"name"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

// MinSecretLength mirrors the HS256 key floor enforced by the token manager.
const MinSecretLength = 32

func defaults() map[string]any {
	return map[string]any{
		"server.addr":                ":8080",
		"server.read_timeout":        "10s",
		"server.write_timeout":       "10s",
		"server.shutdown_timeout":    "15s",
		"log.level":                  "info",
		"log.development":            false,
		"database.driver":            "postgres",
		"database.max_open_conns":    10,
		"database.max_idle_conns":    5,
		"database.conn_max_lifetime": "5m",
		"database.auto_migrate":      true,
		"jwt.issuer":                 "blogpessoal",
		"jwt.ttl":                    "1h",
		"ratelimit.login_rps":        0.2,
		"ratelimit.login_burst":      5,
		"bootstrap.name":             "Root",
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"log-level": "log.level",
	"db-driver": "database.driver",
	"db-url":    "database.url",
}

// Load builds the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// envKey turns BLOG_SECTION_SOME_KEY into section.some_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.URL == "" {
			return oops.Code("CONFIG_INVALID").Errorf("database.url is required for the postgres driver")
		}
	default:
		return oops.Code("CONFIG_INVALID").Errorf("unknown database.driver %q", c.Database.Driver)
	}

	if len(c.JWT.Secret) < MinSecretLength {
		return oops.Code("CONFIG_INVALID").Errorf("jwt.secret must be at least %d bytes", MinSecretLength)
	}
	if c.JWT.TTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("jwt.ttl must be positive")
	}

	if c.RateLimit.LoginRPS < 0 || c.RateLimit.LoginBurst < 0 {
		return oops.Code("CONFIG_INVALID").Errorf("ratelimit values must not be negative")
	}

	if c.OIDC.Enabled && (c.OIDC.Issuer == "" || c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return oops.Code("CONFIG_INVALID").Errorf("oidc.issuer, oidc.client_id and oidc.redirect_url are required when oidc is enabled")
	}

	if (c.Bootstrap.Email == "") != (c.Bootstrap.Password == "") {
		return oops.Code("CONFIG_INVALID").Errorf("bootstrap.email and bootstrap.password must be set together")
	}
	return nil
}
