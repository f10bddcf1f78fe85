// Package anonymizer is the facade over the processing pipeline. It owns
// the process-wide collaborators (cache strategy, detection backend,
// monitor, optional audit store) and builds a fresh engine per call so each
// call sees an immutable configuration.
package anonymizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/analyzer"
	"github.com/piivault/piivault/internal/audit"
	"github.com/piivault/piivault/internal/cache"
	"github.com/piivault/piivault/internal/config"
	"github.com/piivault/piivault/internal/core"
	"github.com/piivault/piivault/internal/deanon"
	"github.com/piivault/piivault/internal/engine"
	"github.com/piivault/piivault/internal/logger"
	"github.com/piivault/piivault/internal/monitor"
)

// Anonymizer exposes the anonymize / deanonymize / analyze operations
type Anonymizer struct {
	cfg       *config.Config
	strategy  cache.Strategy
	backend   analyzer.Analyzer
	prefilter analyzer.Prefilter
	monitor   *monitor.PerformanceMonitor
	audit     *audit.Store
	logger    *logger.Logger
}

// Option overrides one processing parameter for a single call
type Option func(*core.ProcessingConfig)

// WithLanguage selects the language for this call
func WithLanguage(language core.Language) Option {
	return func(c *core.ProcessingConfig) { c.Language = language }
}

// WithEntities restricts processing to the given entity types
func WithEntities(entities []string) Option {
	return func(c *core.ProcessingConfig) { c.EntitiesToProcess = entities }
}

// WithConfidenceThreshold overrides the minimum confidence
func WithConfidenceThreshold(threshold float64) Option {
	return func(c *core.ProcessingConfig) { c.ConfidenceThreshold = threshold }
}

// WithCacheEnabled toggles result caching for this call
func WithCacheEnabled(enabled bool) Option {
	return func(c *core.ProcessingConfig) { c.CacheEnabled = enabled }
}

// WithCustomGenerators installs per-entity-type fake value overrides
func WithCustomGenerators(generators map[string]core.GeneratorFunc) Option {
	return func(c *core.ProcessingConfig) { c.CustomGenerators = generators }
}

// WithSeed fixes the fake value RNG seed for reproducible sessions
func WithSeed(seed int64) Option {
	return func(c *core.ProcessingConfig) { c.Seed = seed }
}

// New builds the facade from configuration
func New(cfg *config.Config, log *logger.Logger) (*Anonymizer, error) {
	strategy, err := buildStrategy(cfg, log)
	if err != nil {
		return nil, err
	}

	var analyzerOpts []analyzer.Option
	var prefilter analyzer.Prefilter
	if cfg.Analyzer.Prefilter.Enabled {
		prefilter = analyzer.NewModelPrefilter(
			log.WithComponent("prefilter").Logger,
			cfg.Analyzer.Prefilter.ModelPath,
			cfg.Analyzer.Prefilter.MaxLength,
			cfg.Analyzer.Prefilter.Threshold,
		)
		if prefilter != nil {
			analyzerOpts = append(analyzerOpts, analyzer.WithPrefilter(prefilter))
		}
	}

	a := &Anonymizer{
		cfg:       cfg,
		strategy:  strategy,
		backend:   analyzer.NewPatternAnalyzer(log.WithComponent("analyzer").Logger, analyzerOpts...),
		prefilter: prefilter,
		monitor:   monitor.New(),
		logger:    log,
	}

	if cfg.Audit.Enabled {
		store, err := audit.NewStore(cfg.Audit.DSN, log.WithComponent("audit").Logger)
		if err != nil {
			strategy.Close()
			return nil, fmt.Errorf("failed to initialize audit store: %w", err)
		}
		a.audit = store
	}

	return a, nil
}

// buildStrategy selects the cache strategy once at construction
func buildStrategy(cfg *config.Config, log *logger.Logger) (cache.Strategy, error) {
	if !cfg.Cache.Enabled || cfg.Cache.Strategy == "none" {
		return cache.NewNoop(), nil
	}

	switch cfg.Cache.Strategy {
	case "memory":
		return cache.NewLRU(cfg.Cache.MaxEntries, cfg.Cache.DefaultTTL), nil
	case "redis":
		return cache.NewRedis(cache.RedisConfig{
			URL:            cfg.Cache.Redis.URL,
			KeyPrefix:      cfg.Cache.KeyPrefix,
			DefaultTTL:     cfg.Cache.DefaultTTL,
			MaxConnections: cfg.Cache.Redis.MaxConnections,
			MinIdleConns:   cfg.Cache.Redis.MinIdleConns,
			Strict:         cfg.Cache.Redis.Strict,
		}, log.WithComponent("cache").Logger)
	case "bolt":
		return cache.NewBolt(cfg.Cache.Bolt.Path, cfg.Cache.DefaultTTL)
	case "sqlite":
		return cache.NewSQLite(cfg.Cache.SQLite.Path, cfg.Cache.DefaultTTL)
	default:
		return nil, core.NewConfigurationError(
			fmt.Sprintf("unknown cache strategy: %s", cfg.Cache.Strategy), nil)
	}
}

// processingConfig derives the per-call configuration from defaults plus options
func (a *Anonymizer) processingConfig(opts []Option) core.ProcessingConfig {
	pc := core.ProcessingConfig{
		Language:            core.Language(a.cfg.Processing.Language),
		EntitiesToProcess:   a.cfg.Processing.Entities,
		ConfidenceThreshold: a.cfg.Processing.ConfidenceThreshold,
		PreserveFormat:      a.cfg.Processing.PreserveFormat,
		MaxWorkers:          a.cfg.Processing.MaxWorkers,
		ChunkSize:           a.cfg.Processing.ChunkSize,
		CacheEnabled:        a.cfg.Cache.Enabled,
		Seed:                a.cfg.Processing.Seed,
	}
	for _, opt := range opts {
		opt(&pc)
	}
	return pc
}

// AnonymizeText runs the full pipeline on text
func (a *Anonymizer) AnonymizeText(ctx context.Context, text string, opts ...Option) (*core.ProcessingResult, error) {
	pc := a.processingConfig(opts)

	eng, err := engine.New(a.backend, a.strategy, pc, a.cfg.Cache.DefaultTTL, a.logger.WithComponent("engine").Logger)
	if err != nil {
		return nil, err
	}

	result, err := eng.Process(ctx, text)
	if err != nil {
		return nil, err
	}

	a.monitor.RecordProcessing(result)
	a.recordAudit(ctx, pc, result)
	a.logger.LogProcessing(string(pc.Language), result.Metrics.CharsProcessed,
		result.Metrics.EntityCount, result.Metrics.Duration, result.Metrics.CacheHit)
	return result, nil
}

// DeanonymizeText restores original values using the entities map
func (a *Anonymizer) DeanonymizeText(anonymizedText string, entitiesMap *core.EntitiesMap) deanon.Result {
	return deanon.Restore(anonymizedText, entitiesMap)
}

// AnalyzeOnly detects entities without anonymizing
func (a *Anonymizer) AnalyzeOnly(ctx context.Context, text string, opts ...Option) ([]core.EntityMatch, error) {
	pc := a.processingConfig(opts)

	eng, err := engine.New(a.backend, a.strategy, pc, a.cfg.Cache.DefaultTTL, a.logger.WithComponent("engine").Logger)
	if err != nil {
		return nil, err
	}
	return eng.AnalyzeOnly(ctx, text)
}

// SupportedEntities lists detectable entity types for a language
func (a *Anonymizer) SupportedEntities(language core.Language) []string {
	return analyzer.SupportedEntities(language)
}

// SupportedLanguages lists all processable languages
func (a *Anonymizer) SupportedLanguages() []core.Language {
	return core.SupportedLanguages()
}

// Monitor exposes the in-process performance aggregates
func (a *Anonymizer) Monitor() *monitor.PerformanceMonitor {
	return a.monitor
}

// AuditStore returns the audit store, or nil when auditing is disabled
func (a *Anonymizer) AuditStore() *audit.Store {
	return a.audit
}

// ClearCache drops all cached results
func (a *Anonymizer) ClearCache(ctx context.Context) error {
	return a.strategy.Clear(ctx)
}

func (a *Anonymizer) recordAudit(ctx context.Context, pc core.ProcessingConfig, result *core.ProcessingResult) {
	if a.audit == nil {
		return
	}
	err := a.audit.RecordRun(ctx, audit.Entry{
		Language:       string(pc.Language),
		CharsProcessed: result.Metrics.CharsProcessed,
		EntityCount:    result.Metrics.EntityCount,
		ChunkCount:     result.Metrics.ChunkCount,
		DurationMs:     result.Metrics.Duration.Milliseconds(),
		CacheHit:       result.Metrics.CacheHit,
	})
	if err != nil {
		// Audit is best-effort: a full result is already in hand
		a.logger.Warn("Failed to record audit entry", zap.Error(err))
	}
}

// Close releases the cache strategy, audit store, and pre-filter model
func (a *Anonymizer) Close() error {
	var firstErr error
	if err := a.strategy.Close(); err != nil {
		firstErr = err
	}
	if a.audit != nil {
		if err := a.audit.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.prefilter != nil {
		if err := a.prefilter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
