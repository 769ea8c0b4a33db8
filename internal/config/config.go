// Package config loads settleup configuration from a TOML file, a .env file and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
	"github.com/mmynk/settleup/pkg/logging"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Storage    StorageConfig    `toml:"storage"`
	Log        LogConfig        `toml:"log"`
	Settlement SettlementConfig `toml:"settlement"`
	Roster     RosterConfig     `toml:"roster"`
	Events     EventsConfig     `toml:"events"`
}

type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	DBPath  string `toml:"db_path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type SettlementConfig struct {
	// Mode is "hub" (every debtor pays the main creditor) or "minimal".
	Mode       string `toml:"mode"`
	DateLayout string `toml:"date_layout"`
}

type RosterConfig struct {
	Members []string `toml:"members"`
}

type EventsConfig struct {
	// NATSURL enables bill-settled events when set.
	NATSURL string `toml:"nats_url"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	members := make([]string, len(models.DefaultRoster))
	for i, m := range models.DefaultRoster {
		members[i] = string(m)
	}

	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: "10s",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  "./data/settleup.db",
		},
		Log: LogConfig{Level: "info"},
		Settlement: SettlementConfig{
			Mode:       calculator.ModeHub.String(),
			DateLayout: state.DefaultDateLayout,
		},
		Roster: RosterConfig{Members: members},
	}
}

// Load builds the configuration. path names an optional TOML file; an empty path
// skips it. A .env file in the working directory is loaded when present, then
// SETTLEUP_* and related environment variables override individual settings.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
		}
	}

	// .env is optional.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SETTLEUP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SETTLEUP_PORT %q: must be a number", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("SETTLEUP_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SETTLEUP_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("SETTLEUP_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SETTLEUP_MODE"); v != "" {
		c.Settlement.Mode = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.Events.NATSURL = v
	}
	return nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid shutdown timeout %q: %w", c.Server.ShutdownTimeout, err))
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			errs = append(errs, errors.New("database path cannot be empty when using sqlite backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid storage backend %q: must be %s or %s", c.Storage.Backend, BackendSQLite, BackendMemory))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := calculator.ParseMode(c.Settlement.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Settlement.DateLayout == "" {
		errs = append(errs, errors.New("settlement date layout cannot be empty"))
	}

	seen := make(map[models.Member]bool)
	for _, name := range c.Roster.Members {
		m := models.NormalizeMember(name)
		if m == "" {
			errs = append(errs, fmt.Errorf("roster: %w", models.ErrEmptyMemberName))
			continue
		}
		if seen[m] {
			errs = append(errs, fmt.Errorf("roster: %w: %s", models.ErrDuplicateMember, m))
		}
		seen[m] = true
	}

	if c.Events.NATSURL != "" {
		if u, err := url.Parse(c.Events.NATSURL); err != nil {
			errs = append(errs, fmt.Errorf("invalid NATS URL %q: %w", c.Events.NATSURL, err))
		} else if u.Scheme != "nats" && u.Scheme != "tls" {
			errs = append(errs, fmt.Errorf("invalid NATS URL scheme %q: must be nats or tls", u.Scheme))
		}
	}

	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, 10s when invalid.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// Mode returns the parsed settlement mode. Call Validate first.
func (c *Config) Mode() calculator.Mode {
	mode, _ := calculator.ParseMode(c.Settlement.Mode)
	return mode
}

// DefaultRoster returns the configured default members, normalized.
func (c *Config) DefaultRoster() []models.Member {
	members := make([]models.Member, 0, len(c.Roster.Members))
	for _, name := range c.Roster.Members {
		members = append(members, models.NormalizeMember(name))
	}
	return models.MergeRoster(members, nil)
}
