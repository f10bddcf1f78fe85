// Package deanon restores original text from anonymized output and its
// entities map.
package deanon

import (
	"sort"
	"strings"

	"github.com/piivault/piivault/internal/core"
)

// Result reports a restoration. AppliedEntities lists which map entries were
// actually found and replaced, for diagnostics; entries whose fake value no
// longer occurs in the text are skipped, not failed.
type Result struct {
	Text            string   `json:"text"`
	AppliedEntities []string `json:"applied_entities"`
	SkippedEntities []string `json:"skipped_entities"`
}

// Restore replaces every literal occurrence of each fake value with its
// original value. Longer fake values are replaced first so a shorter fake
// value that is a substring of a longer one cannot corrupt a pending
// replacement. Pure function over its inputs.
func Restore(anonymizedText string, entitiesMap *core.EntitiesMap) Result {
	result := Result{Text: anonymizedText}
	if entitiesMap == nil || entitiesMap.Len() == 0 {
		return result
	}

	entities := entitiesMap.InOrder()
	sort.SliceStable(entities, func(i, j int) bool {
		return len(entities[i].FakeValue) > len(entities[j].FakeValue)
	})

	for _, e := range entities {
		if e.FakeValue == "" || !strings.Contains(result.Text, e.FakeValue) {
			result.SkippedEntities = append(result.SkippedEntities, e.EntityID)
			continue
		}
		result.Text = strings.ReplaceAll(result.Text, e.FakeValue, e.OriginalValue)
		result.AppliedEntities = append(result.AppliedEntities, e.EntityID)
	}

	return result
}
