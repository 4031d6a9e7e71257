package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root         string   `yaml:"root"`
		ExtraPath    string   `yaml:"extra_path"`
		Exclude      []string `yaml:"exclude"`
		UseGitignore bool     `yaml:"use_gitignore"`
	} `yaml:"project"`
	Labels struct {
		Language    string `yaml:"language"`
		Environment string `yaml:"environment"`
		Package     string `yaml:"package"`
	} `yaml:"labels"`
	Trace struct {
		Dir         string `yaml:"dir"`
		Environment string `yaml:"environment"`
	} `yaml:"trace"`
	DB string `yaml:"db"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Project.Root = "backend"
	cfg.Labels.Language = "py"
	cfg.Labels.Environment = "backend"
	cfg.Labels.Package = "backend"
	cfg.Trace.Dir = ".intellimap/runtime"
	cfg.Trace.Environment = "test"
	return cfg
}

// LoadConfig reads the YAML config at path, layered over defaults and under
// environment overrides. A missing file is not an error: the tool runs fine
// on defaults alone.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// 3. Override with environment variables if present
	if root := os.Getenv("INTELLIMAP_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if db := os.Getenv("INTELLIMAP_DB"); db != "" {
		cfg.DB = db
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Trace.Environment = env
	}

	return cfg, nil
}
