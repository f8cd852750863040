package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	// DatabaseURL selects the postgres persistence engine; empty means the
	// caller wires an in-process engine instead.
	DatabaseURL string `yaml:"database_url"`
	LogDir      string `yaml:"log_dir"`
	Debug       bool   `yaml:"debug"`
}

// Load reads configuration from the environment, after loading .env if one
// exists. An optional INKWELL_CONFIG yaml file provides base values the
// environment overrides.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: "dev",
		LogDir:      "logs",
	}

	if path := os.Getenv("INKWELL_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: config file %s ignored: %v\n", path, err)
		}
	}

	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.Debug = getEnv("DEBUG", defaultDebug(cfg.Environment)) == "true"

	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// defaultDebug returns the default debug setting based on environment
func defaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
