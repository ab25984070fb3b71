package classify

import (
	"encoding/json"
	"reflect"
	"testing"

	"hashhound/internal/hashtype"
)

func TestClassifyAmbiguousDigestRanksFamilyInCatalogOrder(t *testing.T) {
	classifier := New(nil)
	result := classifier.Classify("5f4dcc3b5aa765d61d8327deb882cf99")

	expected := []Match{
		{Name: "MD5", Confidence: ConfidenceMedium},
		{Name: "NTLM", Confidence: ConfidenceMedium},
		{Name: "MD4", Confidence: ConfidenceMedium},
		{Name: "LM", Confidence: ConfidenceMedium},
	}
	if len(result.Matches) != len(expected) {
		t.Fatalf("expected %d matches, got %d: %+v", len(expected), len(result.Matches), result.Matches)
	}
	for i, want := range expected {
		got := result.Matches[i]
		if got.Name != want.Name || got.Confidence != want.Confidence {
			t.Fatalf("match %d: expected %s/%s, got %s/%s", i, want.Name, want.Confidence, got.Name, got.Confidence)
		}
	}
}

func TestClassifyBcryptIsSingleHighConfidenceMatch(t *testing.T) {
	classifier := New(nil)
	result := classifier.Classify("$2a$12$K3JNi5vQMio5UQRrUJQOm.7U8Fb3sacDJIQUblk75jtpz6nbMPuFS")

	if len(result.Matches) != 1 {
		t.Fatalf("expected single match, got %+v", result.Matches)
	}
	if result.Matches[0].Name != "BCrypt" || result.Matches[0].Confidence != ConfidenceHigh {
		t.Fatalf("expected BCrypt/high, got %s/%s", result.Matches[0].Name, result.Matches[0].Confidence)
	}
	if !result.Identified() {
		t.Fatal("expected result to count as identified")
	}
}

func TestClassifyMySQLDigestIsSingleMediumMatch(t *testing.T) {
	classifier := New(nil)
	result := classifier.Classify("*2470C0C06DEE42FD1618BB99005ADCA2EC9D1E19")

	if len(result.Matches) != 1 {
		t.Fatalf("expected single match, got %+v", result.Matches)
	}
	if result.Matches[0].Name != "MySQL4.1+" || result.Matches[0].Confidence != ConfidenceMedium {
		t.Fatalf("expected MySQL4.1+/medium, got %s/%s", result.Matches[0].Name, result.Matches[0].Confidence)
	}
}

func TestClassifyUnmatchedInputYieldsUnknownFallback(t *testing.T) {
	classifier := New(nil)
	result := classifier.Classify("not-a-hash!!")

	if len(result.Matches) != 1 {
		t.Fatalf("expected single fallback match, got %+v", result.Matches)
	}
	match := result.Matches[0]
	if match.Name != UnknownTypeName {
		t.Fatalf("expected %s, got %s", UnknownTypeName, match.Name)
	}
	if match.Confidence != ConfidenceUnknown {
		t.Fatalf("expected unknown confidence, got %s", match.Confidence)
	}
	if match.Description != "could not identify this hash type" {
		t.Fatalf("unexpected fallback description %q", match.Description)
	}
	if result.Identified() {
		t.Fatal("fallback result must not count as identified")
	}
}

func TestClassifyTrimsSurroundingWhitespace(t *testing.T) {
	classifier := New(nil)
	padded := classifier.Classify("  5f4dcc3b5aa765d61d8327deb882cf99\n")
	bare := classifier.Classify("5f4dcc3b5aa765d61d8327deb882cf99")

	if padded.Hash != bare.Hash {
		t.Fatalf("expected trimmed hash %q, got %q", bare.Hash, padded.Hash)
	}
	if !reflect.DeepEqual(padded.Matches, bare.Matches) {
		t.Fatalf("padding changed the matches: %+v vs %+v", padded.Matches, bare.Matches)
	}
}

func TestClassifyDoesNotFoldCase(t *testing.T) {
	classifier := New(nil)
	result := classifier.Classify("5F4DCC3B5AA765D61D8327DEB882CF99")

	if result.Identified() {
		t.Fatalf("uppercase raw digest must stay unknown, got %+v", result.Matches)
	}
}

func TestClassifyIsReferentiallyTransparent(t *testing.T) {
	classifier := New(nil)
	inputs := []string{
		"5f4dcc3b5aa765d61d8327deb882cf99",
		"not-a-hash!!",
		"*2470C0C06DEE42FD1618BB99005ADCA2EC9D1E19",
	}
	for _, input := range inputs {
		first := classifier.Classify(input)
		second := classifier.Classify(input)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("repeated classification diverged for %q: %+v vs %+v", input, first, second)
		}
	}
}

func TestClassifySortsByConfidenceThenCatalogOrder(t *testing.T) {
	registry := hashtype.NewRegistry([]hashtype.Definition{
		{Name: "RareFirst", Pattern: `^[a-f0-9]{10}$`, Rarity: hashtype.RarityRare},
		{Name: "CommonUnique", Pattern: `^[a-f0-9]{10,10}$`, Rarity: hashtype.RarityCommon},
		{Name: "UncommonA", Pattern: `^[0-9a-f]{10}$`, Rarity: hashtype.RarityUncommon},
		{Name: "UncommonB", Pattern: `^[0-9a-f]{10}$`, Rarity: hashtype.RarityUncommon},
	})

	classifier := New(registry)
	result := classifier.Classify("abcdef0123")

	names := make([]string, 0, len(result.Matches))
	for _, match := range result.Matches {
		names = append(names, match.Name)
	}
	expected := []string{"CommonUnique", "UncommonA", "UncommonB", "RareFirst"}
	if !reflect.DeepEqual(names, expected) {
		t.Fatalf("expected order %v, got %v", expected, names)
	}
}

func TestClassifySkipsEntriesWithBrokenPatterns(t *testing.T) {
	registry := hashtype.NewRegistry([]hashtype.Definition{
		{Name: "Broken", Pattern: `^[unclosed$`, Rarity: hashtype.RarityCommon},
		{Name: "Hex10", Pattern: `^[a-f0-9]{10}$`, Rarity: hashtype.RarityCommon},
	})

	classifier := New(registry)
	result := classifier.Classify("abcdef0123")

	if len(result.Matches) != 1 || result.Matches[0].Name != "Hex10" {
		t.Fatalf("expected broken entry to be skipped, got %+v", result.Matches)
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	classifier := New(nil)
	results := classifier.ClassifyAll([]string{
		"5f4dcc3b5aa765d61d8327deb882cf99",
		"$2a$12$K3JNi5vQMio5UQRrUJQOm.7U8Fb3sacDJIQUblk75jtpz6nbMPuFS",
		"not-a-hash!!",
	})

	encoded, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal results: %v", err)
	}
	var decoded []Result
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal results: %v", err)
	}
	if !reflect.DeepEqual(results, decoded) {
		t.Fatalf("round trip changed results:\n%+v\n%+v", results, decoded)
	}
}

func TestClassifyAllPreservesOrderAndIsolation(t *testing.T) {
	classifier := New(nil)
	inputs := []string{
		"5f4dcc3b5aa765d61d8327deb882cf99",
		"definitely not a hash",
		"2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
	}

	results := classifier.ClassifyAll(inputs)
	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	if results[0].Best().Name != "MD5" {
		t.Fatalf("expected MD5 first, got %s", results[0].Best().Name)
	}
	if results[1].Identified() {
		t.Fatalf("expected middle input to stay unknown, got %+v", results[1].Matches)
	}
	if results[2].Best().Name != "SHA-1" || results[2].Best().Confidence != ConfidenceHigh {
		t.Fatalf("expected SHA-1/high last, got %+v", results[2].Best())
	}
}
