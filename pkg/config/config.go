package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// API Settings
	APIBaseURL string `yaml:"api_base_url"`
	APIToken   string `yaml:"api_token"`

	// Grid Settings
	PageSize            int `yaml:"page_size"`
	GridColumns         int `yaml:"grid_columns"`
	CardHeight          int `yaml:"card_height"`
	GridBypassThreshold int `yaml:"grid_bypass_threshold"`

	// Editing
	DebounceMS       int `yaml:"debounce_ms"`
	PromptDebounceMS int `yaml:"prompt_debounce_ms"`

	// Upload
	DefaultCountry  string `yaml:"default_country"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`

	// UI Settings
	ColorTheme   string `yaml:"color_theme"`
	StatusTimeMS int    `yaml:"status_time_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:          "http://localhost:8080",
		APIToken:            "",
		PageSize:            50,
		GridColumns:         3,
		CardHeight:          4,
		GridBypassThreshold: 30,
		DebounceMS:          300,
		PromptDebounceMS:    500,
		DefaultCountry:      "",
		WatchDebounceMS:     500,
		ColorTheme:          "auto",
		StatusTimeMS:        3000,
	}
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "catadm.yaml"
	}
	return filepath.Join(home, ".config", "catadm", "config.yaml")
}

// Load reads configuration from the specified file path. Environment
// variables CATADM_API_URL and CATADM_API_TOKEN override the file.
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, defaults plus env are fine
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if url := os.Getenv("CATADM_API_URL"); url != "" {
		cfg.APIBaseURL = url
	}
	if token := os.Getenv("CATADM_API_TOKEN"); token != "" {
		cfg.APIToken = token
	}

	// Apply defaults for essential values if missing or nonsensical
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.GridColumns <= 0 {
		cfg.GridColumns = 3
	}
	if cfg.CardHeight <= 0 {
		cfg.CardHeight = 4
	}
	if cfg.GridBypassThreshold < 0 {
		cfg.GridBypassThreshold = 30
	}
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = 300
	}
	if cfg.PromptDebounceMS <= 0 {
		cfg.PromptDebounceMS = 500
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.StatusTimeMS <= 0 {
		cfg.StatusTimeMS = 3000
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
