// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/creator-agent/internal/orchestration"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Provider credentials
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Google AI Studio key
	ClaudeAPIKey string `json:"claude_api_key,omitempty"` // Anthropic key

	// Model overrides, keyed by tier name (lite, standard, advanced)
	GeminiModels map[string]string `json:"gemini_models,omitempty"`
	ClaudeModels map[string]string `json:"claude_models,omitempty"`

	// Server
	ListenAddr        string `json:"listen_addr,omitempty"`          // host:port for the HTTP server
	RateLimitPerMin   int    `json:"rate_limit_per_min,omitempty"`   // requests per minute per client
	ShutdownTimeoutMs int    `json:"shutdown_timeout_ms,omitempty"`  // graceful shutdown budget
	DatabaseURL       string `json:"database_url,omitempty"`         // PostgreSQL connection URL for run audit storage
	AllowedOrigin     string `json:"allowed_origin,omitempty"`       // CORS origin, * when empty

	// Behavior
	DefaultTier string `json:"default_tier,omitempty"` // tier used when a request names none
	Verbose     bool   `json:"verbose,omitempty"`      // print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills credential fields from environment variables when the config
// file left them empty. File values win over the environment.
func (c *Config) FromEnv() {
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.ClaudeAPIKey == "" {
		c.ClaudeAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has valid values.
// Note: required credentials are checked at client construction time, not
// here, so a config used only for offline commands still validates.
func (c *Config) Validate() error {
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_min' must be non-negative")
	}
	if c.ShutdownTimeoutMs < 0 {
		return fmt.Errorf("config error: 'shutdown_timeout_ms' must be non-negative")
	}
	if c.DefaultTier != "" && !orchestration.Tier(c.DefaultTier).Valid() {
		return fmt.Errorf("config error: unknown 'default_tier' %q", c.DefaultTier)
	}
	for tierName := range c.GeminiModels {
		if !validTierName(tierName) {
			return fmt.Errorf("config error: unknown tier %q in 'gemini_models'", tierName)
		}
	}
	for tierName := range c.ClaudeModels {
		if !validTierName(tierName) {
			return fmt.Errorf("config error: unknown tier %q in 'claude_models'", tierName)
		}
	}
	return nil
}

func validTierName(name string) bool {
	switch name {
	case "lite", "standard", "advanced":
		return true
	}
	return false
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.ClaudeAPIKey == "" {
		result.ClaudeAPIKey = defaults.ClaudeAPIKey
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}
	if result.DefaultTier == "" {
		result.DefaultTier = defaults.DefaultTier
	}

	if result.RateLimitPerMin == 0 {
		result.RateLimitPerMin = defaults.RateLimitPerMin
	}
	if result.ShutdownTimeoutMs == 0 {
		result.ShutdownTimeoutMs = defaults.ShutdownTimeoutMs
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration baseline.
func Defaults() Config {
	return Config{
		ListenAddr:        ":8080",
		RateLimitPerMin:   30,
		ShutdownTimeoutMs: 10_000,
		DefaultTier:       string(orchestration.TierFlow),
	}
}
