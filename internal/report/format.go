package report

import (
	"fmt"
	"strings"

	"hashhound/internal/classify"
)

// Format selects an output projection for classification results.
type Format string

const (
	FormatText   Format = "text"
	FormatObject Format = "object"
	FormatJSON   Format = "json"
)

var allFormats = []Format{FormatText, FormatObject, FormatJSON}

// ParseFormat resolves a user-supplied selector into a Format. Matching is
// case-insensitive; anything outside the known set is an error.
func ParseFormat(value string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range allFormats {
		if format == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("output format: unsupported value %q (expected text, object, or json)", value)
}

// Label maps a confidence tier to its display label.
func Label(confidence classify.Confidence) string {
	switch confidence {
	case classify.ConfidenceHigh:
		return "Most Likely"
	case classify.ConfidenceMedium:
		return "Possible"
	case classify.ConfidenceLow:
		return "Least Likely"
	default:
		return "Unknown"
	}
}
