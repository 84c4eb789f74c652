package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MapsConfig struct {
	APIKey             string  `toml:"api_key"`
	SearchRadiusMeters float64 `toml:"search_radius_meters"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

// Prompts holds per-stage prompt template overrides. An empty field means the
// stage uses its built-in template.
type Prompts struct {
	Intake       string `toml:"intake"`
	Followup     string `toml:"followup"`
	Discovery    string `toml:"discovery"`
	Fairness     string `toml:"fairness"`
	Presentation string `toml:"presentation"`
}

type Config struct {
	LLM     LLMConfig    `toml:"llm"`
	Maps    MapsConfig   `toml:"maps"`
	Server  ServerConfig `toml:"server"`
	Prompts Prompts      `toml:"prompts"`
}

// Default returns the configuration used when no TOML file is present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "claude",
			Model:    "claude-sonnet-4-20250514",
		},
		Maps: MapsConfig{
			SearchRadiusMeters: 5000,
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file settings with environment variables when present.
// Secrets normally arrive this way rather than through the TOML file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		c.Maps.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}
