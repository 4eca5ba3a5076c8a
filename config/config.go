package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL = "http://localhost:8000"
	devSecret     = "development-only-session-secret"
)

type Config struct {
	Env        string         `yaml:"env"`
	ListenAddr string         `yaml:"listen_addr"`
	API        APIConfig      `yaml:"api"`
	Session    SessionConfig  `yaml:"session"`
	Slack      SlackConfig    `yaml:"slack"`
	Snapshots  SnapshotConfig `yaml:"snapshots"`
}

type APIConfig struct {
	// Host is a bare host name; HTTPS is assumed. It wins over URL.
	Host    string        `yaml:"host"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	Backend      string        `yaml:"backend"`
	DSN          string        `yaml:"dsn"`
	TTL          time.Duration `yaml:"ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type SnapshotConfig struct {
	Enabled bool          `yaml:"enabled"`
	Proxy   string        `yaml:"proxy"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Env:        "development",
		ListenAddr: ":8080",
		API:        APIConfig{Timeout: 30 * time.Second},
		Session:    SessionConfig{Backend: "memory", TTL: 24 * time.Hour},
		Snapshots:  SnapshotConfig{Timeout: 60 * time.Second},
	}
}

// Load reads the optional YAML file at path, expanding ${VARS}, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		// #nosec G304 -- path is operator-provided config path.
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		expanded := os.ExpandEnv(string(raw))
		expanded = strings.ReplaceAll(expanded, "\r\n", "\n")
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.Session.Secret == "" && cfg.Env == "development" {
		cfg.Session.Secret = devSecret
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.API.Host, "API_HOST")
	setString(&cfg.API.URL, "API_URL")
	setDuration(&cfg.API.Timeout, "API_TIMEOUT")
	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setString(&cfg.Session.Backend, "SESSION_BACKEND")
	setString(&cfg.Session.DSN, "DB_SOURCE")
	setDuration(&cfg.Session.TTL, "SESSION_TTL")
	setBool(&cfg.Session.SecureCookie, "SESSION_SECURE_COOKIE")
	setString(&cfg.Slack.WebhookURL, "SLACK_WEBHOOK_URL")
	setBool(&cfg.Snapshots.Enabled, "SNAPSHOTS_ENABLED")
	setString(&cfg.Snapshots.Proxy, "SNAPSHOT_PROXY")
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	switch c.Session.Backend {
	case "memory":
	case "postgres":
		if c.Session.DSN == "" {
			return fmt.Errorf("session.dsn is required when session.backend=postgres")
		}
	default:
		return fmt.Errorf("session.backend must be memory or postgres, got %q", c.Session.Backend)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required outside development")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

// APIBaseURL resolves the verification API root: host (HTTPS), then URL,
// then the local default.
func (c Config) APIBaseURL() string {
	if c.API.Host != "" {
		return "https://" + strings.TrimRight(c.API.Host, "/")
	}
	if c.API.URL != "" {
		return strings.TrimRight(c.API.URL, "/")
	}
	return DefaultAPIURL
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
