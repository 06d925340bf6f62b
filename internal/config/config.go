package config

import (
	"fmt"
	"os"

	"datasetgen/internal/features"
	"datasetgen/internal/labeler"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Input struct {
		MasterFile string `yaml:"master_file"`
	} `yaml:"input"`

	Output struct {
		JSONPath string `yaml:"json_path"`
		CSVPath  string `yaml:"csv_path"`
	} `yaml:"output"`

	Database struct {
		Type string `yaml:"type"` // "sqlite" or "postgres"
		Path string `yaml:"path"` // SQLite path
		URL  string `yaml:"url"`  // PostgreSQL URL
	} `yaml:"database"`

	Auth struct {
		Enabled     bool   `yaml:"enabled"`
		APIKey      string `yaml:"api_key"`
		JWTSecret   string `yaml:"jwt_secret"`
		TokenTTLMin int    `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`

	Generation GenerationConfig `yaml:"generation"`
}

// GenerationConfig covers every knob of the synthesis pipeline. Defaults
// reproduce the canonical dataset.
type GenerationConfig struct {
	NumRows                 int     `yaml:"num_rows"`
	MinItems                int     `yaml:"min_items"`
	MaxItems                int     `yaml:"max_items"`
	HighImportanceThreshold float64 `yaml:"high_importance_threshold"`
	EvasionProb             float64 `yaml:"evasion_prob"`
	NoiseFlipProb           float64 `yaml:"noise_flip_prob"`
	Seed                    int64   `yaml:"seed"`
	ProcessPoolSize         int     `yaml:"process_pool_size"`
	PortPoolSize            int     `yaml:"port_pool_size"`
}

// LoadConfig loads configuration from YAML file
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	// Expand environment variables in secrets
	config.Auth.APIKey = os.ExpandEnv(config.Auth.APIKey)
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Database.URL = os.ExpandEnv(config.Database.URL)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8003"
	}

	if c.Input.MasterFile == "" {
		c.Input.MasterFile = "master-data.json"
	}

	if c.Output.JSONPath == "" {
		c.Output.JSONPath = "attack_dataset.json"
	}
	if c.Output.CSVPath == "" {
		c.Output.CSVPath = "attack_dataset.csv"
	}

	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/dataset.db"
	}

	if c.Auth.TokenTTLMin == 0 {
		c.Auth.TokenTTLMin = 60
	}

	g := &c.Generation
	if g.NumRows == 0 {
		g.NumRows = 1000
	}
	if g.MinItems == 0 {
		g.MinItems = 1
	}
	if g.MaxItems == 0 {
		g.MaxItems = 8
	}
	if g.HighImportanceThreshold == 0 {
		g.HighImportanceThreshold = features.DefaultHighImportanceThreshold
	}
	if g.EvasionProb == 0 {
		g.EvasionProb = labeler.DefaultEvasionProb
	}
	if g.NoiseFlipProb == 0 {
		g.NoiseFlipProb = labeler.DefaultNoiseFlipProb
	}
	if g.Seed == 0 {
		g.Seed = 42
	}
	if g.ProcessPoolSize == 0 {
		g.ProcessPoolSize = 80
	}
	if g.PortPoolSize == 0 {
		g.PortPoolSize = 80
	}
}

// Validate checks cross-field constraints that default filling cannot fix.
func (c *Config) Validate() error {
	g := c.Generation
	if g.MinItems < 1 {
		return fmt.Errorf("generation.min_items must be >= 1, got %d", g.MinItems)
	}
	if g.MaxItems < g.MinItems {
		return fmt.Errorf("generation.max_items (%d) must be >= generation.min_items (%d)", g.MaxItems, g.MinItems)
	}
	if g.EvasionProb < 0 || g.EvasionProb > 1 {
		return fmt.Errorf("generation.evasion_prob must be in [0,1], got %v", g.EvasionProb)
	}
	if g.NoiseFlipProb < 0 || g.NoiseFlipProb > 1 {
		return fmt.Errorf("generation.noise_flip_prob must be in [0,1], got %v", g.NoiseFlipProb)
	}
	if g.ProcessPoolSize < 0 || g.PortPoolSize < 0 {
		return fmt.Errorf("generation pool sizes must be non-negative")
	}
	switch c.Database.Type {
	case "sqlite", "postgres", "none":
	default:
		return fmt.Errorf("database.type must be sqlite, postgres or none, got %q", c.Database.Type)
	}
	if c.Auth.Enabled {
		if c.Auth.APIKey == "" {
			return fmt.Errorf("auth.api_key must be set when auth is enabled")
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret must be set when auth is enabled")
		}
	}
	return nil
}
