package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "SWIPR_CONFIG"
	databasePathEnv = "SWIPR_DATABASE_PATH"
	mlEndpointEnv   = "SWIPR_ML_ENDPOINT"
	mlAPIKeyEnv     = "SWIPR_ML_API_KEY"
	digestPathEnv   = "SWIPR_DIGEST_PATH"
	logLevelEnv     = "SWIPR_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	ML       MLConfig       `yaml:"ml"`
	Digest   DigestConfig   `yaml:"digest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MLConfig describes the default relevance-model inference service.
// The model registry can override the endpoint at runtime.
type MLConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// DigestConfig controls the one-shot digest run.
type DigestConfig struct {
	Count      int    `yaml:"count"`
	OutputPath string `yaml:"outputPath"`
}

// LoggingConfig sets the global log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(mlEndpointEnv); v != "" {
		c.ML.InferenceURL = v
	}

	if v := os.Getenv(mlAPIKeyEnv); v != "" {
		c.ML.APIKey = v
	}

	if v := os.Getenv(digestPathEnv); v != "" {
		c.Digest.OutputPath = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.ML.InferenceURL != "" {
		base.ML.InferenceURL = override.ML.InferenceURL
	}
	if override.ML.APIKey != "" {
		base.ML.APIKey = override.ML.APIKey
	}

	if override.Digest.Count > 0 {
		base.Digest.Count = override.Digest.Count
	}
	if override.Digest.OutputPath != "" {
		base.Digest.OutputPath = override.Digest.OutputPath
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "swipr.db"},
		ML:       MLConfig{InferenceURL: "", APIKey: ""},
		Digest:   DigestConfig{Count: 5, OutputPath: "digest.html"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
