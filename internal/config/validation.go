package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.validateSession(); err != nil {
		return fmt.Errorf("session config: %w", err)
	}

	if err := c.validateCSRF(); err != nil {
		return fmt.Errorf("csrf config: %w", err)
	}

	if err := c.validateGoogle(); err != nil {
		return fmt.Errorf("google config: %w", err)
	}

	if err := c.validateTodoist(); err != nil {
		return fmt.Errorf("todoist config: %w", err)
	}

	if err := c.validateStore(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if err := validateAbsoluteURL(c.Server.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	sameSite := strings.ToLower(c.Server.CookieSameSite)
	if sameSite != "lax" && sameSite != "strict" && sameSite != "none" {
		return fmt.Errorf("invalid cookie_same_site: %s (must be lax, strict, or none)", c.Server.CookieSameSite)
	}

	// Provider callbacks arrive as cross-site top-level navigations, a strict
	// cookie would never reach the callback endpoint.
	if sameSite == "strict" {
		return fmt.Errorf("cookie_same_site strict breaks OAuth callbacks, use lax")
	}

	return nil
}

func (c *Config) validateSession() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 characters")
	}

	if c.Session.TTL < time.Hour {
		return fmt.Errorf("ttl must be at least 1 hour")
	}

	return nil
}

func (c *Config) validateCSRF() error {
	if c.CSRF.TTL < time.Minute || c.CSRF.TTL > time.Hour {
		return fmt.Errorf("ttl must be between 1 minute and 1 hour")
	}

	if !strings.HasPrefix(c.CSRF.CookiePath, "/") {
		return fmt.Errorf("cookie_path must start with /")
	}

	return nil
}

func (c *Config) validateGoogle() error {
	if c.Google.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}

	if c.Google.ClientSecret == "" {
		return fmt.Errorf("client_secret is required")
	}

	if err := validateAbsoluteURL(c.Google.Issuer); err != nil {
		return fmt.Errorf("invalid issuer: %w", err)
	}

	hasOpenID := false
	for _, scope := range c.Google.Scopes {
		if scope == "openid" {
			hasOpenID = true
			break
		}
	}
	if !hasOpenID {
		return fmt.Errorf("'openid' scope is required")
	}

	if err := validateTimeout(c.Google.ExchangeTimeout); err != nil {
		return fmt.Errorf("exchange_timeout: %w", err)
	}

	return nil
}

func (c *Config) validateTodoist() error {
	if c.Todoist.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}

	if c.Todoist.ClientSecret == "" {
		return fmt.Errorf("client_secret is required")
	}

	for name, raw := range map[string]string{
		"auth_url":     c.Todoist.AuthURL,
		"token_url":    c.Todoist.TokenURL,
		"api_base_url": c.Todoist.APIBaseURL,
	} {
		if err := validateAbsoluteURL(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if err := validateTimeout(c.Todoist.ExchangeTimeout); err != nil {
		return fmt.Errorf("exchange_timeout: %w", err)
	}

	if err := validateTimeout(c.Todoist.APITimeout); err != nil {
		return fmt.Errorf("api_timeout: %w", err)
	}

	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Type {
	case "memory":
	case "redis":
		if c.Store.Redis == nil {
			return fmt.Errorf("redis config is required when type is redis")
		}
		if c.Store.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}
	case "firestore":
		if c.Store.Firestore == nil {
			return fmt.Errorf("firestore config is required when type is firestore")
		}
		if c.Store.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore project_id is required")
		}
	default:
		return fmt.Errorf("invalid type: %s (must be memory, redis, or firestore)", c.Store.Type)
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" {
		return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "text" && format != "cloud" {
		return fmt.Errorf("invalid format: %s (must be json, text, or cloud)", c.Logging.Format)
	}

	return nil
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func validateTimeout(d time.Duration) error {
	if d <= 0 || d > 30*time.Second {
		return fmt.Errorf("must be between 0 and 30s")
	}
	return nil
}
