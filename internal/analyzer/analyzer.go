package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/core"
)

// PatternAnalyzer is the pattern-based detection backend. It is stateless
// apart from its compiled rule tables and safe for concurrent use.
type PatternAnalyzer struct {
	logger    *zap.Logger
	prefilter Prefilter
}

// Option configures the analyzer
type Option func(*PatternAnalyzer)

// WithPrefilter installs a pre-filter consulted before the pattern pass
func WithPrefilter(p Prefilter) Option {
	return func(a *PatternAnalyzer) { a.prefilter = p }
}

// NewPatternAnalyzer creates the default detection backend
func NewPatternAnalyzer(logger *zap.Logger, opts ...Option) *PatternAnalyzer {
	a := &PatternAnalyzer{logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Detect runs every enabled recognizer over the text and returns raw
// candidate spans. Spans may overlap and duplicate; resolution happens
// downstream. Returns a typed analysis failure for unsupported languages.
func (a *PatternAnalyzer) Detect(ctx context.Context, text string, language core.Language, entityTypes []string) ([]core.EntityMatch, error) {
	recognizers, ok := recognizersFor(language)
	if !ok {
		return nil, core.NewAnalysisError(fmt.Sprintf("no recognizers registered for language %q", language), nil)
	}

	allowed := allowedSet(entityTypes)

	// Optional model-backed pre-filter: chunks scored clean skip the
	// pattern pass entirely.
	if a.prefilter != nil && a.prefilter.Ready() {
		score, err := a.prefilter.Score(ctx, text)
		if err != nil {
			a.logger.Warn("Pre-filter scoring failed, running full pattern pass", zap.Error(err))
		} else if score < a.prefilter.Threshold() {
			a.logger.Debug("Pre-filter skipped chunk", zap.Float64("score", score))
			return nil, nil
		}
	}

	var matches []core.EntityMatch
	for _, rec := range recognizers {
		if allowed != nil && !allowed[rec.EntityType] {
			continue
		}
		select {
		case <-ctx.Done():
			return nil, core.NewAnalysisError("detection cancelled", ctx.Err())
		default:
		}

		for _, p := range rec.Patterns {
			for _, loc := range p.Regex.FindAllStringIndex(text, -1) {
				matches = append(matches, core.EntityMatch{
					EntityType: rec.EntityType,
					Start:      loc[0],
					End:        loc[1],
					Text:       text[loc[0]:loc[1]],
					Confidence: p.Score,
				})
			}
		}
	}

	a.logger.Debug("Detection pass completed",
		zap.String("language", string(language)),
		zap.Int("raw_matches", len(matches)),
	)

	return matches, nil
}

// allowedSet converts the entity allowlist into a lookup set. nil means all
// entities; the literal "all" behaves the same way.
func allowedSet(entityTypes []string) map[string]bool {
	if len(entityTypes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(entityTypes))
	for _, t := range entityTypes {
		if t == "all" {
			return nil
		}
		set[t] = true
	}
	return set
}
