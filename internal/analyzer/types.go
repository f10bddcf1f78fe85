package analyzer

import (
	"context"
	"regexp"

	"github.com/piivault/piivault/internal/core"
)

// Analyzer is the detection backend consumed by the engine. Detect returns
// raw candidate spans; they may overlap or duplicate and are resolved later.
type Analyzer interface {
	Detect(ctx context.Context, text string, language core.Language, entityTypes []string) ([]core.EntityMatch, error)
}

// Pattern pairs a compiled regex with the confidence it contributes
type Pattern struct {
	Name  string
	Regex *regexp.Regexp
	Score float64
}

// Recognizer detects one entity type through one or more patterns
type Recognizer struct {
	EntityType string
	Patterns   []Pattern
}

// mustPattern compiles a pattern entry, panicking on invalid regex. Rule
// tables are package constants, so a failure here is a programming error
// caught by any test run.
func mustPattern(name, expr string, score float64) Pattern {
	return Pattern{Name: name, Regex: regexp.MustCompile(expr), Score: score}
}
