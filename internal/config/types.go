package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer" mapstructure:"analyzer"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Audit      AuditConfig      `yaml:"audit" mapstructure:"audit"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	WebSocket  WebSocketConfig  `yaml:"websocket" mapstructure:"websocket"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// ProcessingConfig contains anonymization pipeline defaults
type ProcessingConfig struct {
	Language            string   `yaml:"language" mapstructure:"language"`
	Entities            []string `yaml:"entities" mapstructure:"entities"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	PreserveFormat      bool     `yaml:"preserve_format" mapstructure:"preserve_format"`
	MaxWorkers          int      `yaml:"max_workers" mapstructure:"max_workers"`
	ChunkSize           int      `yaml:"chunk_size" mapstructure:"chunk_size"`
	Seed                int64    `yaml:"seed" mapstructure:"seed"`
}

// AnalyzerConfig contains detection backend settings
type AnalyzerConfig struct {
	Prefilter PrefilterConfig `yaml:"prefilter" mapstructure:"prefilter"`
}

// PrefilterConfig controls the optional model-backed pre-filter that lets
// chunks scored clean skip the pattern pass. Needs a binary built with the
// onnx tag; without it the pre-filter is skipped with a warning.
type PrefilterConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	ModelPath string  `yaml:"model_path" mapstructure:"model_path"`
	MaxLength int     `yaml:"max_length" mapstructure:"max_length"`
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// CacheConfig selects and configures the cache strategy
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Strategy   string        `yaml:"strategy" mapstructure:"strategy"` // memory, redis, bolt, sqlite, or none
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix  string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	Redis      RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Bolt       BoltConfig    `yaml:"bolt" mapstructure:"bolt"`
	SQLite     SQLiteConfig  `yaml:"sqlite" mapstructure:"sqlite"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	URL            string `yaml:"url" mapstructure:"url"`
	MaxConnections int    `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int    `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	// Strict makes cache read failures fatal instead of degrading to a miss
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// BoltConfig contains embedded file cache settings
type BoltConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SQLiteConfig contains embedded SQL cache settings
type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AuditConfig contains the optional Postgres audit store settings.
// Audit rows carry metrics only, never text.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains the detection event stream configuration
type WebSocketConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// RateLimitConfig contains per-client API rate limiting settings
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
	Burst   int     `yaml:"burst" mapstructure:"burst"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Processing: ProcessingConfig{
			Language:            "en",
			Entities:            []string{"all"},
			ConfidenceThreshold: 0.5,
			PreserveFormat:      true,
			MaxWorkers:          4,
			ChunkSize:           2000,
		},
		Analyzer: AnalyzerConfig{
			Prefilter: PrefilterConfig{
				Enabled:   false,
				MaxLength: 256,
				Threshold: 0.3,
			},
		},
		Cache: CacheConfig{
			Enabled:    true,
			Strategy:   "memory",
			MaxEntries: 1000,
			DefaultTTL: time.Hour,
			KeyPrefix:  "piivault",
			Redis: RedisConfig{
				URL:            "redis://localhost:6379",
				MaxConnections: 10,
				MinIdleConns:   2,
			},
			Bolt:   BoltConfig{Path: "piivault-cache.db"},
			SQLite: SQLiteConfig{Path: "piivault-cache.sqlite"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			Path:            "/ws",
			MaxConnections:  100,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			WriteTimeout:    10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
	}
}
