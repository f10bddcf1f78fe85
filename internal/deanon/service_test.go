package deanon

import (
	"testing"

	"github.com/piivault/piivault/internal/core"
)

func mapWith(entities ...core.AnonymizedEntity) *core.EntitiesMap {
	em := core.NewEntitiesMap()
	for _, e := range entities {
		em.Append(e)
	}
	return em
}

// TestRestore tests deanonymization
func TestRestore(t *testing.T) {
	t.Run("BasicRestore", func(t *testing.T) {
		em := mapWith(core.AnonymizedEntity{
			EntityID:      "EMAIL_ADDRESS_abc12345",
			EntityType:    "EMAIL_ADDRESS",
			OriginalValue: "alice@corp.com",
			FakeValue:     "user42@example.com",
		})

		result := Restore("Contact user42@example.com for details", em)
		if result.Text != "Contact alice@corp.com for details" {
			t.Errorf("Unexpected restored text: %q", result.Text)
		}
		if len(result.AppliedEntities) != 1 {
			t.Errorf("Expected 1 applied entity, got %d", len(result.AppliedEntities))
		}
		if len(result.SkippedEntities) != 0 {
			t.Errorf("Expected no skipped entities, got %v", result.SkippedEntities)
		}
	})

	t.Run("AllOccurrencesReplaced", func(t *testing.T) {
		em := mapWith(core.AnonymizedEntity{
			EntityID:      "PERSON_11111111",
			OriginalValue: "John",
			FakeValue:     "Person_ab",
		})

		result := Restore("Person_ab met Person_ab", em)
		if result.Text != "John met John" {
			t.Errorf("Unexpected restored text: %q", result.Text)
		}
	})

	t.Run("LongestFakeFirst", func(t *testing.T) {
		// One fake value is a substring of another; replacing the shorter
		// one first would corrupt the longer occurrence.
		em := mapWith(
			core.AnonymizedEntity{
				EntityID:      "PERSON_22222222",
				OriginalValue: "Smith",
				FakeValue:     "Person_ab",
			},
			core.AnonymizedEntity{
				EntityID:      "PERSON_33333333",
				OriginalValue: "John Smith",
				FakeValue:     "Person_abcd",
			},
		)

		result := Restore("Met Person_abcd and Person_ab today", em)
		if result.Text != "Met John Smith and Smith today" {
			t.Errorf("Unexpected restored text: %q", result.Text)
		}
	})

	t.Run("MissingFakeIsSkipped", func(t *testing.T) {
		em := mapWith(
			core.AnonymizedEntity{
				EntityID:      "PERSON_44444444",
				OriginalValue: "John",
				FakeValue:     "Person_zz",
			},
			core.AnonymizedEntity{
				EntityID:      "EMAIL_ADDRESS_55555555",
				OriginalValue: "alice@corp.com",
				FakeValue:     "user1@example.com",
			},
		)

		result := Restore("Only user1@example.com appears here", em)
		if result.Text != "Only alice@corp.com appears here" {
			t.Errorf("Unexpected restored text: %q", result.Text)
		}
		if len(result.AppliedEntities) != 1 {
			t.Errorf("Expected 1 applied entity, got %v", result.AppliedEntities)
		}
		if len(result.SkippedEntities) != 1 || result.SkippedEntities[0] != "PERSON_44444444" {
			t.Errorf("Expected PERSON_44444444 skipped, got %v", result.SkippedEntities)
		}
	})

	t.Run("NilMap", func(t *testing.T) {
		result := Restore("unchanged text", nil)
		if result.Text != "unchanged text" {
			t.Errorf("Nil map should leave text unchanged, got %q", result.Text)
		}
	})

	t.Run("EmptyMap", func(t *testing.T) {
		result := Restore("unchanged text", core.NewEntitiesMap())
		if result.Text != "unchanged text" {
			t.Errorf("Empty map should leave text unchanged, got %q", result.Text)
		}
	})
}
