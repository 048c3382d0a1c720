// Package config defines the simulator configuration and its YAML/JSON
// file loader.
package config

import (
	"fmt"
	"time"

	"github.com/stubdock/stubdock/pkg/auth"
	"github.com/stubdock/stubdock/pkg/catalog"
	"github.com/stubdock/stubdock/pkg/ratelimit"
	"github.com/stubdock/stubdock/pkg/shipments"
	"github.com/stubdock/stubdock/pkg/webhook"
)

// DefaultLatency is the artificial delay applied to every dispatch.
const DefaultLatency = 100 * time.Millisecond

// Config is the root configuration for one simulator instance.
type Config struct {
	// Latency is the fixed artificial delay as a duration string ("150ms").
	Latency string `yaml:"latency" json:"latency"`

	RateLimit   RateLimitConfig      `yaml:"rateLimit" json:"rateLimit"`
	Webhooks    WebhookConfig        `yaml:"webhooks" json:"webhooks"`
	Credentials auth.Credentials     `yaml:"credentials" json:"credentials"`
	Inventory   []catalog.Item       `yaml:"inventory" json:"inventory"`
	Shipments   []shipments.Shipment `yaml:"shipments" json:"shipments"`
	Scenarios   []ScenarioConfig     `yaml:"scenarios" json:"scenarios"`
	Log         LogConfig            `yaml:"log" json:"log"`
}

// RateLimitConfig tunes the fixed-window counter.
type RateLimitConfig struct {
	Limit  int    `yaml:"limit" json:"limit"`
	Window string `yaml:"window" json:"window"`
}

// WebhookConfig tunes the bounded event log.
type WebhookConfig struct {
	Bound int `yaml:"bound" json:"bound"`
}

// LogConfig tunes structured logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ScenarioConfig is a config-defined canned route: a fixed status/body
// pair, optionally guarded by an expression over the incoming request.
type ScenarioConfig struct {
	Name   string `yaml:"name" json:"name"`
	Method string `yaml:"method" json:"method"`
	Path   string `yaml:"path" json:"path"`
	// When is an optional expr predicate over {method, path, headers, body}.
	When    string            `yaml:"when" json:"when"`
	Status  int               `yaml:"status" json:"status"`
	Body    map[string]any    `yaml:"body" json:"body"`
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Latency == "" {
		c.Latency = DefaultLatency.String()
	}
	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = ratelimit.DefaultLimit
	}
	if c.RateLimit.Window == "" {
		c.RateLimit.Window = ratelimit.DefaultWindow.String()
	}
	if c.Webhooks.Bound == 0 {
		c.Webhooks.Bound = webhook.DefaultBound
	}
	def := auth.DefaultCredentials()
	if len(c.Credentials.BearerTokens) == 0 {
		c.Credentials.BearerTokens = def.BearerTokens
	}
	if c.Credentials.SandboxKey == "" {
		c.Credentials.SandboxKey = def.SandboxKey
	}
	if c.Credentials.ProKey == "" {
		c.Credentials.ProKey = def.ProKey
	}
	if len(c.Inventory) == 0 {
		c.Inventory = catalog.DefaultItems()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// LatencyDuration parses the configured latency.
func (c *Config) LatencyDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Latency)
	if err != nil {
		return 0, fmt.Errorf("invalid latency %q: %w", c.Latency, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("latency must not be negative, got %q", c.Latency)
	}
	return d, nil
}

// WindowDuration parses the configured rate-limit window.
func (c *Config) WindowDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.RateLimit.Window)
	if err != nil {
		return 0, fmt.Errorf("invalid rate limit window %q: %w", c.RateLimit.Window, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("rate limit window must be positive, got %q", c.RateLimit.Window)
	}
	return d, nil
}

// Validate checks the configuration for structural problems. It assumes
// defaults have been applied.
func (c *Config) Validate() error {
	if _, err := c.LatencyDuration(); err != nil {
		return err
	}
	if _, err := c.WindowDuration(); err != nil {
		return err
	}
	if c.RateLimit.Limit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit.Limit)
	}
	if c.Webhooks.Bound < 0 {
		return fmt.Errorf("webhook bound must not be negative, got %d", c.Webhooks.Bound)
	}
	for i, sc := range c.Scenarios {
		if sc.Path == "" || sc.Path[0] != '/' {
			return fmt.Errorf("scenario %d (%s): path must start with /", i, sc.Name)
		}
		if sc.Status < 100 || sc.Status > 599 {
			return fmt.Errorf("scenario %d (%s): status %d out of range", i, sc.Name, sc.Status)
		}
	}
	return nil
}
