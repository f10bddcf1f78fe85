// Package faker produces replacement values for detected entities. A
// Session memoizes by (entity type, original value) so the same original
// anonymizes identically everywhere within one processing call, including
// across concurrently analyzed chunks.
package faker

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"sync"

	"github.com/piivault/piivault/internal/core"
)

type memoKey struct {
	entityType    string
	originalValue string
}

// Session is the per-processing-call generator state. Safe for concurrent
// use by chunk workers; the memo and the RNG share one lock so two chunks
// can never produce two different fake values for the same original.
type Session struct {
	language  core.Language
	overrides map[string]core.GeneratorFunc

	mu   sync.Mutex
	memo map[memoKey]string
	used map[string]bool
	rng  *mrand.Rand

	builtins map[string]generatorFunc
}

// NewSession creates a generator session. A seed of zero draws a random
// seed, so fake values differ across sessions; a fixed seed reproduces them.
func NewSession(language core.Language, seed int64, overrides map[string]core.GeneratorFunc) *Session {
	if seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		} else {
			seed = 1
		}
	}
	return &Session{
		language:  language,
		overrides: overrides,
		memo:      make(map[memoKey]string),
		used:      make(map[string]bool),
		rng:       mrand.New(mrand.NewSource(seed)),
		builtins:  builtinGenerators(language),
	}
}

// Generate returns the fake value for (entityType, originalValue),
// producing and memoizing it on first use. Fake values are unique within
// the session: a collision with another original's fake value gets an
// occurrence suffix so deanonymization stays unambiguous.
func (s *Session) Generate(entityType, originalValue string) (string, error) {
	key := memoKey{entityType: entityType, originalValue: originalValue}

	s.mu.Lock()
	defer s.mu.Unlock()

	if fake, ok := s.memo[key]; ok {
		return fake, nil
	}

	fake, err := s.generateLocked(entityType, originalValue)
	if err != nil {
		// Never fall back to the original value: that would leak PII
		return "", core.NewProcessingError(
			fmt.Sprintf("fake value generation failed for entity type %s", entityType), err)
	}

	if s.used[fake] {
		base := fake
		for i := 2; ; i++ {
			fake = fmt.Sprintf("%s-%d", base, i)
			if !s.used[fake] {
				break
			}
		}
	}

	s.memo[key] = fake
	s.used[fake] = true
	return fake, nil
}

func (s *Session) generateLocked(entityType, originalValue string) (string, error) {
	if override, ok := s.overrides[entityType]; ok && override != nil {
		return override(originalValue)
	}
	if gen, ok := s.builtins[entityType]; ok {
		return gen(s.rng), nil
	}
	return fmt.Sprintf("[%s_%s]", entityType, randHex(s.rng, 4)), nil
}

// MemoSize returns the number of memoized originals, for diagnostics
func (s *Session) MemoSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memo)
}

// EntityID derives the stable identifier for an entity occurrence. Equal
// (type, value) pairs share an ID, which is what makes repeated originals
// collapse onto one map entry.
func EntityID(entityType, originalValue string) string {
	sum := sha256.Sum256([]byte(entityType + ":" + originalValue))
	return fmt.Sprintf("%s_%s", entityType, hex.EncodeToString(sum[:])[:8])
}
