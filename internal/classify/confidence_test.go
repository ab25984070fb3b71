package classify

import (
	"testing"

	"hashhound/internal/hashtype"
)

func TestResolveConfidenceGrading(t *testing.T) {
	registry := hashtype.NewRegistry([]hashtype.Definition{
		{Name: "CommonUnique", Pattern: `^a$`, Rarity: hashtype.RarityCommon},
		{Name: "CommonSharedA", Pattern: `^b$`, Rarity: hashtype.RarityCommon},
		{Name: "CommonSharedB", Pattern: `^b$`, Rarity: hashtype.RarityCommon},
		{Name: "Uncommon", Pattern: `^c$`, Rarity: hashtype.RarityUncommon},
		{Name: "Rare", Pattern: `^d$`, Rarity: hashtype.RarityRare},
		{Name: "Untiered", Pattern: `^e$`, Rarity: hashtype.Rarity("exotic")},
	})

	expected := map[string]Confidence{
		"CommonUnique":  ConfidenceHigh,
		"CommonSharedA": ConfidenceMedium,
		"CommonSharedB": ConfidenceMedium,
		"Uncommon":      ConfidenceMedium,
		"Rare":          ConfidenceLow,
		"Untiered":      ConfidenceLow,
	}
	for _, entry := range registry.Entries() {
		got := resolveConfidence(entry)
		if got != expected[entry.Name] {
			t.Fatalf("%s: expected %s, got %s", entry.Name, expected[entry.Name], got)
		}
	}
}

func TestConfidenceRankOrdering(t *testing.T) {
	ordered := []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceUnknown}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("expected %s to rank ahead of %s", ordered[i-1], ordered[i])
		}
	}
	if Confidence("bogus").Rank() != ConfidenceUnknown.Rank() {
		t.Fatal("unrecognized confidence must rank with unknown")
	}
}
