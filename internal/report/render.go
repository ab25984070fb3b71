package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"hashhound/internal/classify"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const labelWidth = 14

// Render writes results to w in the requested format. Colorize only affects
// the text format; structured formats stay byte-stable regardless.
func Render(w io.Writer, format Format, results []classify.Result, colorize bool) error {
	switch format {
	case FormatText:
		return renderText(w, results, colorize)
	case FormatObject:
		return renderObject(w, results)
	case FormatJSON:
		return RenderJSON(w, results)
	default:
		return fmt.Errorf("output format: unsupported value %q (expected text, object, or json)", string(format))
	}
}

func renderText(w io.Writer, results []classify.Result, colorize bool) error {
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, result.Hash); err != nil {
			return err
		}
		for _, match := range result.Matches {
			line := fmt.Sprintf("  %-*s %s", labelWidth, "["+Label(match.Confidence)+"]", match.Name)
			if match.Description != "" {
				line += " - " + match.Description
			}
			if colorize {
				line = confidenceColor(match.Confidence) + line + ansiReset
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderObject(w io.Writer, results []classify.Result) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"HASH", "TYPE", "CONFIDENCE", "DESCRIPTION"})
	for _, result := range results {
		for _, match := range result.Matches {
			tw.AppendRow(table.Row{result.Hash, match.Name, string(match.Confidence), match.Description})
		}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 60},
	})
	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}
	return nil
}

// RenderJSON emits results as an indented JSON array. Job result files and
// the json output format share this projection.
func RenderJSON(w io.Writer, results []classify.Result) error {
	if results == nil {
		results = []classify.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func confidenceColor(confidence classify.Confidence) string {
	switch confidence {
	case classify.ConfidenceHigh:
		return ansiGreen
	case classify.ConfidenceMedium:
		return ansiYellow
	case classify.ConfidenceLow:
		return ansiRed
	default:
		return ansiBlue
	}
}
