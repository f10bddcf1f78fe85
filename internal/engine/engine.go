// Package engine orchestrates the anonymization pipeline: cache lookup,
// chunked concurrent detection, resolution, substitution, and map assembly.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/analyzer"
	"github.com/piivault/piivault/internal/cache"
	"github.com/piivault/piivault/internal/core"
	"github.com/piivault/piivault/internal/faker"
	"github.com/piivault/piivault/internal/resolver"
)

// Engine runs processing calls against one configuration. The cache strategy
// is shared process-wide; everything else is per-call state.
type Engine struct {
	analyzer analyzer.Analyzer
	cache    cache.Strategy
	config   core.ProcessingConfig
	cacheTTL time.Duration
	logger   *zap.Logger
}

// New validates the configuration and creates an engine. Invalid
// configuration fails here, never mid-pipeline.
func New(a analyzer.Analyzer, strategy cache.Strategy, config core.ProcessingConfig, cacheTTL time.Duration, logger *zap.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		strategy = cache.NewNoop()
	}
	return &Engine{
		analyzer: a,
		cache:    strategy,
		config:   config,
		cacheTTL: cacheTTL,
		logger:   logger,
	}, nil
}

// Process anonymizes text and returns the result with the forward entities
// map. On any chunk failure the whole call fails: a partially anonymized
// text is worse than an explicit error.
func (e *Engine) Process(ctx context.Context, text string) (*core.ProcessingResult, error) {
	start := time.Now()

	entityTypes := e.entitiesToAnalyze()

	var fingerprint string
	if e.config.CacheEnabled {
		fingerprint = cache.Fingerprint(text, string(e.config.Language), e.config.ConfidenceThreshold, entityTypes)
		result, ok, err := e.cachedResult(ctx, fingerprint)
		if err != nil {
			// Only strict strategies surface read errors; honor them
			return nil, core.NewProcessingError("cache lookup failed", err)
		}
		if ok {
			result.Metrics.Duration = time.Since(start)
			result.Metrics.CacheHit = true
			e.logger.Debug("Returning cached result", zap.Int("entity_count", result.Metrics.EntityCount))
			return result, nil
		}
	}

	chunks := splitChunks(text, e.config.ChunkSize)

	matches, err := e.analyzeChunks(ctx, chunks, entityTypes)
	if err != nil {
		return nil, err
	}

	// Cross-chunk merge with the same overlap policy used per chunk
	merged := resolver.Resolve(matches, e.config.ConfidenceThreshold)

	// Cancelled calls never produce or cache partial output
	if err := ctx.Err(); err != nil {
		return nil, core.NewProcessingError("processing cancelled", err)
	}

	anonymized, entitiesMap, err := e.substitute(text, merged)
	if err != nil {
		return nil, err
	}

	result := &core.ProcessingResult{
		AnonymizedData: anonymized,
		EntitiesMap:    entitiesMap,
		Metrics: core.Metrics{
			Duration:       time.Since(start),
			EntityCount:    entitiesMap.Len(),
			CharsProcessed: len(text),
			ChunkCount:     len(chunks),
		},
	}

	if e.config.CacheEnabled {
		if err := e.storeResult(ctx, fingerprint, result); err != nil {
			return nil, err
		}
	}

	e.logger.Info("Processing completed",
		zap.String("language", string(e.config.Language)),
		zap.Int("chunks", len(chunks)),
		zap.Int("entity_count", result.Metrics.EntityCount),
		zap.Int("chars_processed", result.Metrics.CharsProcessed),
		zap.Duration("duration", result.Metrics.Duration),
	)

	return result, nil
}

// AnalyzeOnly detects and resolves entities without substituting them
func (e *Engine) AnalyzeOnly(ctx context.Context, text string) ([]core.EntityMatch, error) {
	chunks := splitChunks(text, e.config.ChunkSize)
	matches, err := e.analyzeChunks(ctx, chunks, e.entitiesToAnalyze())
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(matches, e.config.ConfidenceThreshold), nil
}

func (e *Engine) entitiesToAnalyze() []string {
	if len(e.config.EntitiesToProcess) > 0 && e.config.EntitiesToProcess[0] != "all" {
		return e.config.EntitiesToProcess
	}
	return analyzer.SupportedEntities(e.config.Language)
}

// analyzeChunks dispatches detection and per-chunk resolution onto a bounded
// worker pool and joins the results in document-global coordinates. The
// first chunk error cancels in-flight work and aborts the call.
func (e *Engine) analyzeChunks(ctx context.Context, chunks []Chunk, entityTypes []string) ([]core.EntityMatch, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, e.config.MaxWorkers)
	perChunk := make([][]core.EntityMatch, len(chunks))

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(i int, chunk Chunk) {
				defer wg.Done()
				defer func() { <-sem }()

				raw, err := e.analyzer.Detect(ctx, chunk.Text, e.config.Language, entityTypes)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
						cancel()
					}
					mu.Unlock()
					return
				}

				resolved := resolver.Resolve(raw, e.config.ConfidenceThreshold)
				for j := range resolved {
					resolved[j].Start += chunk.Offset
					resolved[j].End += chunk.Offset
				}
				perChunk[i] = resolved
			}(i, chunk)
		}
	}
	wg.Wait()

	if firstErr != nil {
		if errors.Is(firstErr, context.Canceled) || errors.Is(firstErr, context.DeadlineExceeded) {
			return nil, core.NewProcessingError("processing cancelled", firstErr)
		}
		if errors.Is(firstErr, core.ErrAnalysis) {
			return nil, firstErr
		}
		return nil, core.NewAnalysisError("chunk analysis failed", firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewProcessingError("processing cancelled", err)
	}

	// Completion order is irrelevant: chunks are joined in dispatch order
	// and re-sorted during the cross-chunk resolve.
	var all []core.EntityMatch
	for _, m := range perChunk {
		all = append(all, m...)
	}
	return all, nil
}

// substitute applies resolved matches left to right, maintaining a running
// length delta so map entries carry offsets into the anonymized text.
func (e *Engine) substitute(text string, matches []core.EntityMatch) (string, *core.EntitiesMap, error) {
	session := faker.NewSession(e.config.Language, e.config.Seed, e.config.CustomGenerators)
	entitiesMap := core.NewEntitiesMap()

	var out strings.Builder
	out.Grow(len(text))

	last := 0
	delta := 0
	for _, m := range matches {
		if m.Start < last || m.End > len(text) {
			return "", nil, core.NewProcessingError("resolved span escapes document bounds", nil)
		}

		fake, err := session.Generate(m.EntityType, m.Text)
		if err != nil {
			return "", nil, err
		}

		out.WriteString(text[last:m.Start])
		out.WriteString(fake)
		last = m.End

		entitiesMap.Append(core.AnonymizedEntity{
			EntityID:      faker.EntityID(m.EntityType, m.Text),
			EntityType:    m.EntityType,
			OriginalValue: m.Text,
			FakeValue:     fake,
			Start:         m.Start + delta,
			End:           m.Start + delta + len(fake),
			Confidence:    m.Confidence,
		})
		delta += len(fake) - (m.End - m.Start)
	}
	out.WriteString(text[last:])

	return out.String(), entitiesMap, nil
}

func (e *Engine) cachedResult(ctx context.Context, key string) (*core.ProcessingResult, bool, error) {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	var result core.ProcessingResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Corrupted entry: drop it and recompute
		_ = e.cache.ClearKey(ctx, key)
		return nil, false, nil
	}
	return &result, true, nil
}

func (e *Engine) storeResult(ctx context.Context, key string, result *core.ProcessingResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return core.NewProcessingError("failed to serialize result for caching", err)
	}
	if err := e.cache.Set(ctx, key, data, e.cacheTTL); err != nil {
		// Write failures are logged, not fatal: the result itself is complete
		e.logger.Warn("Failed to store result in cache", zap.Error(err))
	}
	return nil
}
