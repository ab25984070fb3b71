package classify

import (
	"sort"
	"strings"

	"hashhound/internal/hashtype"
)

// UnknownTypeName is the name reported when no catalog entry matches.
const UnknownTypeName = "Unknown"

const unknownDescription = "could not identify this hash type"

// Match is one candidate identification for an input.
type Match struct {
	Name        string     `json:"name"`
	Confidence  Confidence `json:"confidence"`
	Description string     `json:"description"`
}

// Result pairs a trimmed input with its ranked candidate matches. Matches is
// never empty; inputs that satisfy no catalog entry carry the Unknown
// fallback.
type Result struct {
	Hash    string  `json:"hash"`
	Matches []Match `json:"matches"`
}

// Identified reports whether the result names at least one real catalog
// entry rather than the Unknown fallback.
func (r Result) Identified() bool {
	return len(r.Matches) > 0 && r.Matches[0].Confidence != ConfidenceUnknown
}

// Best returns the strongest candidate for the result.
func (r Result) Best() Match {
	if len(r.Matches) == 0 {
		return unknownMatch()
	}
	return r.Matches[0]
}

// Classifier evaluates inputs against a registry snapshot taken at
// construction. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	entries []hashtype.Entry
}

// New builds a Classifier over registry. A nil registry classifies against
// the built-in catalog.
func New(registry *hashtype.Registry) *Classifier {
	if registry == nil {
		registry = hashtype.Builtin()
	}
	return &Classifier{entries: registry.Entries()}
}

// Classify identifies candidate hash types for input. The input is trimmed
// before evaluation; entries whose patterns failed to compile are skipped.
// Classify always produces a result, never an error.
func (c *Classifier) Classify(input string) Result {
	trimmed := strings.TrimSpace(input)
	matches := make([]Match, 0, 4)
	for _, entry := range c.entries {
		if !entry.Matches(trimmed) {
			continue
		}
		matches = append(matches, Match{
			Name:        entry.Name,
			Confidence:  resolveConfidence(entry),
			Description: entry.Description,
		})
	}
	if len(matches) == 0 {
		return Result{Hash: trimmed, Matches: []Match{unknownMatch()}}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence.Rank() < matches[j].Confidence.Rank()
	})
	return Result{Hash: trimmed, Matches: matches}
}

// ClassifyAll classifies inputs sequentially, one result per input in input
// order. Each element is classified in isolation.
func (c *Classifier) ClassifyAll(inputs []string) []Result {
	results := make([]Result, len(inputs))
	for i, input := range inputs {
		results[i] = c.Classify(input)
	}
	return results
}

func unknownMatch() Match {
	return Match{
		Name:        UnknownTypeName,
		Confidence:  ConfidenceUnknown,
		Description: unknownDescription,
	}
}
