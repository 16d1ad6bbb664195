package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	CSRF    CSRFConfig    `yaml:"csrf"`
	Google  GoogleConfig  `yaml:"google"`
	Todoist TodoistConfig `yaml:"todoist"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`

	// Version is resolved at load time, not read from the file.
	Version string `yaml:"-"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	BaseURL        string `yaml:"base_url"`
	CookieDomain   string `yaml:"cookie_domain"`
	CookieSecure   bool   `yaml:"cookie_secure"`
	CookieSameSite string `yaml:"cookie_same_site"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	Refresh    *bool         `yaml:"refresh"`
}

type CSRFConfig struct {
	CookieName string        `yaml:"cookie_name"`
	CookiePath string        `yaml:"cookie_path"`
	TTL        time.Duration `yaml:"ttl"`
}

type GoogleConfig struct {
	Issuer               string        `yaml:"issuer"`
	ClientID             string        `yaml:"client_id"`
	ClientSecret         string        `yaml:"client_secret"`
	Scopes               []string      `yaml:"scopes"`
	AuthURL              string        `yaml:"auth_url,omitempty"`
	TokenURL             string        `yaml:"token_url,omitempty"`
	AllowUnverifiedEmail bool          `yaml:"allow_unverified_email"`
	ExchangeTimeout      time.Duration `yaml:"exchange_timeout"`
}

type TodoistConfig struct {
	ClientID        string        `yaml:"client_id"`
	ClientSecret    string        `yaml:"client_secret"`
	Scope           string        `yaml:"scope"`
	AuthURL         string        `yaml:"auth_url"`
	TokenURL        string        `yaml:"token_url"`
	APIBaseURL      string        `yaml:"api_base_url"`
	ExchangeTimeout time.Duration `yaml:"exchange_timeout"`
	APITimeout      time.Duration `yaml:"api_timeout"`
}

type StoreConfig struct {
	Type      string           `yaml:"type"`
	Redis     *RedisConfig     `yaml:"redis,omitempty"`
	Firestore *FirestoreConfig `yaml:"firestore,omitempty"`
}

type RedisConfig struct {
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	PoolSize   int    `yaml:"pool_size"`
	MaxRetries int    `yaml:"max_retries"`
	KeyPrefix  string `yaml:"key_prefix"`
}

type FirestoreConfig struct {
	ProjectID  string `yaml:"project_id"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// envSecrets holds values that never belong in a checked-in config file.
type envSecrets struct {
	GoogleClientID      string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `env:"GOOGLE_CLIENT_SECRET"`
	TodoistClientID     string `env:"TODOIST_CLIENT_ID"`
	TodoistClientSecret string `env:"TODOIST_CLIENT_SECRET"`
	SessionSecret       string `env:"SESSION_SECRET"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	Version             string `env:"GAE_VERSION"`
}

const DefaultVersion = "dev"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.loadSecretsFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load secrets from environment: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CookieSameSite == "" {
		c.Server.CookieSameSite = "lax"
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "taddoist-session"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 30 * 24 * time.Hour
	}
	if c.Session.Refresh == nil {
		refresh := true
		c.Session.Refresh = &refresh
	}

	if c.CSRF.CookieName == "" {
		c.CSRF.CookieName = "taddoist-sign-csrf"
	}
	if c.CSRF.CookiePath == "" {
		c.CSRF.CookiePath = "/sign"
	}
	if c.CSRF.TTL == 0 {
		c.CSRF.TTL = 10 * time.Minute
	}

	if c.Google.Issuer == "" {
		c.Google.Issuer = "https://accounts.google.com"
	}
	if len(c.Google.Scopes) == 0 {
		c.Google.Scopes = []string{"openid", "email"}
	}
	if c.Google.ExchangeTimeout == 0 {
		c.Google.ExchangeTimeout = 5 * time.Second
	}

	if c.Todoist.Scope == "" {
		c.Todoist.Scope = "data:read_write"
	}
	if c.Todoist.AuthURL == "" {
		c.Todoist.AuthURL = "https://todoist.com/oauth/authorize"
	}
	if c.Todoist.TokenURL == "" {
		c.Todoist.TokenURL = "https://todoist.com/oauth/access_token"
	}
	if c.Todoist.APIBaseURL == "" {
		c.Todoist.APIBaseURL = "https://api.todoist.com/rest/v2/"
	}
	if c.Todoist.ExchangeTimeout == 0 {
		c.Todoist.ExchangeTimeout = 5 * time.Second
	}
	if c.Todoist.APITimeout == 0 {
		c.Todoist.APITimeout = 5 * time.Second
	}

	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	if c.Store.Type == "redis" && c.Store.Redis != nil {
		if c.Store.Redis.PoolSize == 0 {
			c.Store.Redis.PoolSize = 10
		}
		if c.Store.Redis.MaxRetries == 0 {
			c.Store.Redis.MaxRetries = 3
		}
		if c.Store.Redis.KeyPrefix == "" {
			c.Store.Redis.KeyPrefix = "taddoist"
		}
	}
	if c.Store.Type == "firestore" && c.Store.Firestore != nil {
		if c.Store.Firestore.Collection == "" {
			c.Store.Firestore.Collection = "UserSettings"
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) loadSecretsFromEnv() error {
	var secrets envSecrets
	if err := env.Parse(&secrets); err != nil {
		return err
	}

	if secrets.GoogleClientID != "" {
		c.Google.ClientID = secrets.GoogleClientID
	}
	if secrets.GoogleClientSecret != "" {
		c.Google.ClientSecret = secrets.GoogleClientSecret
	}
	if secrets.TodoistClientID != "" {
		c.Todoist.ClientID = secrets.TodoistClientID
	}
	if secrets.TodoistClientSecret != "" {
		c.Todoist.ClientSecret = secrets.TodoistClientSecret
	}
	if secrets.SessionSecret != "" {
		c.Session.Secret = secrets.SessionSecret
	}

	if c.Store.Type == "redis" && c.Store.Redis != nil && secrets.RedisPassword != "" {
		c.Store.Redis.Password = secrets.RedisPassword
	}

	c.Version = secrets.Version
	if c.Version == "" {
		c.Version = DefaultVersion
	}

	return nil
}
