package analyzer

import (
	"sort"
	"sync"

	"github.com/piivault/piivault/internal/core"
)

// registry maps each language onto its recognizer set. A language either
// has an entry here or is unsupported.
var (
	registryOnce sync.Once
	registry     map[core.Language][]Recognizer
)

func recognizersFor(language core.Language) ([]Recognizer, bool) {
	registryOnce.Do(func() {
		registry = map[core.Language][]Recognizer{
			core.English: englishRecognizers(),
			core.German:  germanRecognizers(),
		}
	})
	recs, ok := registry[language]
	return recs, ok
}

// SupportedEntities returns the entity types detectable for a language,
// sorted for stable output.
func SupportedEntities(language core.Language) []string {
	recs, ok := recognizersFor(language)
	if !ok {
		return nil
	}
	types := make([]string, 0, len(recs))
	for _, r := range recs {
		types = append(types, r.EntityType)
	}
	sort.Strings(types)
	return types
}
