package classify

import "hashhound/internal/hashtype"

// Confidence grades how strongly a candidate explains an input.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// Rank orders confidence tiers for sorting, strongest first.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 3
	default:
		return 4
	}
}

// resolveConfidence grades a structurally matching entry. Unknown is reserved
// for the fallback match, so an unrecognized rarity tier grades low rather
// than unknown.
func resolveConfidence(entry hashtype.Entry) Confidence {
	switch entry.Rarity {
	case hashtype.RarityCommon:
		if entry.Shared() {
			return ConfidenceMedium
		}
		return ConfidenceHigh
	case hashtype.RarityUncommon:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
