package config

import (
	"strings"
	"testing"
)

// TestGetDefaults tests the default configuration
func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Processing.Language != "en" {
		t.Errorf("Expected default language en, got %s", cfg.Processing.Language)
	}
	if cfg.Processing.ConfidenceThreshold != 0.5 {
		t.Errorf("Expected default threshold 0.5, got %f", cfg.Processing.ConfidenceThreshold)
	}
	if cfg.Cache.Strategy != "memory" {
		t.Errorf("Expected default cache strategy memory, got %s", cfg.Cache.Strategy)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Default configuration must validate, got %v", err)
	}
}

// TestValidate tests configuration validation
func TestValidate(t *testing.T) {
	valid := func() *Config { return GetDefaults() }

	t.Run("InvalidPort", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "port") {
			t.Errorf("Expected port error, got %v", err)
		}
	})

	t.Run("UnsupportedLanguage", func(t *testing.T) {
		cfg := valid()
		cfg.Processing.Language = "fr"
		if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "language") {
			t.Errorf("Expected language error, got %v", err)
		}
	})

	t.Run("GermanIsSupported", func(t *testing.T) {
		cfg := valid()
		cfg.Processing.Language = "de"
		if err := Validate(cfg); err != nil {
			t.Errorf("German should validate, got %v", err)
		}
	})

	t.Run("ThresholdOutOfRange", func(t *testing.T) {
		cfg := valid()
		cfg.Processing.ConfidenceThreshold = 1.5
		if err := Validate(cfg); err == nil {
			t.Error("Expected threshold error")
		}
		cfg.Processing.ConfidenceThreshold = -0.1
		if err := Validate(cfg); err == nil {
			t.Error("Expected threshold error for negative value")
		}
	})

	t.Run("WorkersTooLow", func(t *testing.T) {
		cfg := valid()
		cfg.Processing.MaxWorkers = 0
		if err := Validate(cfg); err == nil {
			t.Error("Expected max_workers error")
		}
	})

	t.Run("ChunkTooSmall", func(t *testing.T) {
		cfg := valid()
		cfg.Processing.ChunkSize = 99
		if err := Validate(cfg); err == nil {
			t.Error("Expected chunk_size error")
		}
	})

	t.Run("InvalidCacheStrategy", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Strategy = "memcached"
		if err := Validate(cfg); err == nil {
			t.Error("Expected cache strategy error")
		}
	})

	t.Run("AllCacheStrategies", func(t *testing.T) {
		for _, strategy := range []string{"memory", "redis", "bolt", "sqlite", "none"} {
			cfg := valid()
			cfg.Cache.Strategy = strategy
			if err := Validate(cfg); err != nil {
				t.Errorf("Strategy %s should validate, got %v", strategy, err)
			}
		}
	})

	t.Run("PrefilterRequiresModelPath", func(t *testing.T) {
		cfg := valid()
		cfg.Analyzer.Prefilter.Enabled = true
		cfg.Analyzer.Prefilter.ModelPath = ""
		if err := Validate(cfg); err == nil {
			t.Error("Expected model_path error")
		}
		cfg.Analyzer.Prefilter.ModelPath = "models/pii-filter.onnx"
		if err := Validate(cfg); err != nil {
			t.Errorf("Prefilter with model path should validate, got %v", err)
		}
	})

	t.Run("PrefilterThresholdRange", func(t *testing.T) {
		cfg := valid()
		cfg.Analyzer.Prefilter.Enabled = true
		cfg.Analyzer.Prefilter.ModelPath = "models/pii-filter.onnx"
		cfg.Analyzer.Prefilter.Threshold = 1.5
		if err := Validate(cfg); err == nil {
			t.Error("Expected prefilter threshold error")
		}
	})

	t.Run("AuditRequiresDSN", func(t *testing.T) {
		cfg := valid()
		cfg.Audit.Enabled = true
		cfg.Audit.DSN = ""
		if err := Validate(cfg); err == nil {
			t.Error("Expected audit DSN error")
		}
		cfg.Audit.DSN = "postgres://localhost/piivault"
		if err := Validate(cfg); err != nil {
			t.Errorf("Audit with DSN should validate, got %v", err)
		}
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		if err := Validate(cfg); err == nil {
			t.Error("Expected log level error")
		}
	})

	t.Run("InvalidLogFormat", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Format = "xml"
		if err := Validate(cfg); err == nil {
			t.Error("Expected log format error")
		}
	})
}
