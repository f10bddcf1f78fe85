package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Set defaults
	config := GetDefaults()

	// Configure viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/piivault/")
	viper.AddConfigPath("$HOME/.piivault/")

	// Environment variable overrides
	viper.SetEnvPrefix("PIIVAULT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Use specific config file if provided
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the loaded configuration
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Processing.Language != "en" && config.Processing.Language != "de" {
		return fmt.Errorf("unsupported language: %s (must be en or de)", config.Processing.Language)
	}

	if config.Processing.ConfidenceThreshold < 0 || config.Processing.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be between 0 and 1, got %f", config.Processing.ConfidenceThreshold)
	}

	if config.Processing.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", config.Processing.MaxWorkers)
	}

	if config.Processing.ChunkSize < 100 {
		return fmt.Errorf("chunk_size must be at least 100, got %d", config.Processing.ChunkSize)
	}

	if config.Analyzer.Prefilter.Enabled {
		if config.Analyzer.Prefilter.ModelPath == "" {
			return fmt.Errorf("prefilter enabled but model_path is empty")
		}
		if config.Analyzer.Prefilter.MaxLength < 1 {
			return fmt.Errorf("prefilter max_length must be at least 1, got %d", config.Analyzer.Prefilter.MaxLength)
		}
		if config.Analyzer.Prefilter.Threshold < 0 || config.Analyzer.Prefilter.Threshold > 1 {
			return fmt.Errorf("prefilter threshold must be between 0 and 1, got %f", config.Analyzer.Prefilter.Threshold)
		}
	}

	switch config.Cache.Strategy {
	case "memory", "redis", "bolt", "sqlite", "none":
	default:
		return fmt.Errorf("invalid cache strategy: %s (must be memory, redis, bolt, sqlite, or none)", config.Cache.Strategy)
	}

	if config.Audit.Enabled && config.Audit.DSN == "" {
		return fmt.Errorf("audit store enabled but dsn is empty")
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := &Config{}
		if err := viper.Unmarshal(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		if err := Validate(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		callback(newConfig)
	})

	return nil
}
