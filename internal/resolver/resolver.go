// Package resolver turns raw, possibly overlapping detections into a clean
// span list. It is pure: no state, no side effects.
package resolver

import (
	"sort"

	"github.com/piivault/piivault/internal/core"
)

// Resolve filters matches below the confidence threshold and collapses
// overlapping spans. Overlap is transitive: a chain of pairwise-overlapping
// matches forms one group, and only the group's winner survives. The winner
// is the match with the highest confidence; ties go to the longer span, then
// to the earlier start. Output is sorted by start and guaranteed
// non-overlapping.
func Resolve(matches []core.EntityMatch, confidenceThreshold float64) []core.EntityMatch {
	filtered := make([]core.EntityMatch, 0, len(matches))
	for _, m := range matches {
		if m.Confidence >= confidenceThreshold {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Start != filtered[j].Start {
			return filtered[i].Start < filtered[j].Start
		}
		return filtered[i].End < filtered[j].End
	})

	var resolved []core.EntityMatch

	// Walk the sorted spans grouping transitively-overlapping matches: a
	// match belongs to the current group while it starts before the
	// furthest end seen so far.
	groupStart := 0
	groupEnd := filtered[0].End
	for i := 1; i <= len(filtered); i++ {
		if i < len(filtered) && filtered[i].Start < groupEnd {
			if filtered[i].End > groupEnd {
				groupEnd = filtered[i].End
			}
			continue
		}

		resolved = append(resolved, winner(filtered[groupStart:i]))

		if i < len(filtered) {
			groupStart = i
			groupEnd = filtered[i].End
		}
	}

	return resolved
}

// winner applies the tie-break policy within one overlap group
func winner(group []core.EntityMatch) core.EntityMatch {
	best := group[0]
	for _, m := range group[1:] {
		if m.Confidence != best.Confidence {
			if m.Confidence > best.Confidence {
				best = m
			}
			continue
		}
		mLen, bestLen := m.End-m.Start, best.End-best.Start
		if mLen != bestLen {
			if mLen > bestLen {
				best = m
			}
			continue
		}
		if m.Start < best.Start {
			best = m
		}
	}
	return best
}
