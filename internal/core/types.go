package core

import (
	"fmt"
	"time"
)

// Language selects the recognizer set and fake value locale
type Language string

const (
	English Language = "en"
	German  Language = "de"
)

// SupportedLanguages returns all languages the pipeline can process
func SupportedLanguages() []Language {
	return []Language{English, German}
}

// Valid reports whether the language is supported
func (l Language) Valid() bool {
	return l == English || l == German
}

// EntityMatch is a single detected PII span. Immutable once produced by the
// detection backend; positions are byte offsets into the source text.
type EntityMatch struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Validate checks the span and confidence invariants
func (m EntityMatch) Validate() error {
	if m.Start < 0 || m.End <= m.Start {
		return NewProcessingError(fmt.Sprintf("invalid entity position [%d,%d)", m.Start, m.End), nil)
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		return NewProcessingError(fmt.Sprintf("confidence %f out of range", m.Confidence), nil)
	}
	return nil
}

// Overlaps reports whether the [Start,End) intervals of two matches intersect
func (m EntityMatch) Overlaps(other EntityMatch) bool {
	return m.Start < other.End && other.Start < m.End
}

// AnonymizedEntity records one applied substitution. One entry exists per
// retained, resolved EntityMatch.
type AnonymizedEntity struct {
	EntityID      string  `json:"entity_id"`
	EntityType    string  `json:"entity_type"`
	OriginalValue string  `json:"original_value"`
	FakeValue     string  `json:"fake_value"`
	Start         int     `json:"start"`
	End           int     `json:"end"`
	Confidence    float64 `json:"confidence"`
}

// EntitiesMap is the forward map enabling deanonymization. Keys are stable
// entity IDs; Order preserves appearance order in the source text. Every
// FakeValue in one map is unique so restoration is unambiguous.
type EntitiesMap struct {
	Entities map[string]AnonymizedEntity `json:"entities"`
	Order    []string                    `json:"order"`
}

// NewEntitiesMap returns an empty map ready for appends
func NewEntitiesMap() *EntitiesMap {
	return &EntitiesMap{Entities: make(map[string]AnonymizedEntity)}
}

// Append inserts an entity preserving appearance order. Re-appending an
// existing ID overwrites the entry without duplicating the order slot.
func (em *EntitiesMap) Append(e AnonymizedEntity) {
	if _, exists := em.Entities[e.EntityID]; !exists {
		em.Order = append(em.Order, e.EntityID)
	}
	em.Entities[e.EntityID] = e
}

// Len returns the number of distinct entities in the map
func (em *EntitiesMap) Len() int {
	if em == nil {
		return 0
	}
	return len(em.Entities)
}

// InOrder returns the entities in order of appearance in the text
func (em *EntitiesMap) InOrder() []AnonymizedEntity {
	out := make([]AnonymizedEntity, 0, len(em.Order))
	for _, id := range em.Order {
		if e, ok := em.Entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// GeneratorFunc produces a fake value for an original value. Used for
// per-entity-type overrides; must be pure from the engine's perspective.
type GeneratorFunc func(originalValue string) (string, error)

// ProcessingConfig is immutable per processing call
type ProcessingConfig struct {
	Language            Language
	EntitiesToProcess   []string // nil or empty means all supported entities
	ConfidenceThreshold float64
	PreserveFormat      bool
	MaxWorkers          int
	ChunkSize           int
	CacheEnabled        bool
	Seed                int64 // 0 means random per session
	CustomGenerators    map[string]GeneratorFunc
}

// DefaultProcessingConfig mirrors the documented defaults
func DefaultProcessingConfig() ProcessingConfig {
	return ProcessingConfig{
		Language:            English,
		ConfidenceThreshold: 0.5,
		PreserveFormat:      true,
		MaxWorkers:          4,
		ChunkSize:           2000,
		CacheEnabled:        true,
	}
}

// Validate rejects invalid configuration at construction time so invalid
// values never surface mid-pipeline.
func (c ProcessingConfig) Validate() error {
	if !c.Language.Valid() {
		return NewConfigurationError(fmt.Sprintf("unsupported language: %s", c.Language), nil)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return NewConfigurationError("confidence threshold must be between 0 and 1", map[string]interface{}{
			"confidence_threshold": c.ConfidenceThreshold,
		})
	}
	if c.MaxWorkers < 1 {
		return NewConfigurationError("max_workers must be at least 1", map[string]interface{}{
			"max_workers": c.MaxWorkers,
		})
	}
	if c.ChunkSize < 100 {
		return NewConfigurationError("chunk_size must be at least 100", map[string]interface{}{
			"chunk_size": c.ChunkSize,
		})
	}
	return nil
}

// Metrics carries processing measurements out of the engine
type Metrics struct {
	Duration       time.Duration `json:"duration"`
	EntityCount    int           `json:"entity_count"`
	CharsProcessed int           `json:"chars_processed"`
	CacheHit       bool          `json:"cache_hit"`
	ChunkCount     int           `json:"chunk_count"`
}

// ProcessingResult is owned by the caller; the engine does not retain it
type ProcessingResult struct {
	AnonymizedData string       `json:"anonymized_data"`
	EntitiesMap    *EntitiesMap `json:"entities_map"`
	Metrics        Metrics      `json:"metrics"`
}
