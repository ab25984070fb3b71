package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestConsoleLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return slog.New(newPrettyHandler(buf, levelVar, false))
}

func TestConsoleHeaderIncludesComponentAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("job started",
		String(FieldComponent, "jobs"),
		Int64(FieldJobID, 12),
		String(FieldSource, "/tmp/batch/wordlist.txt"),
	)

	output := buf.String()
	if !strings.Contains(output, "INFO [jobs] Job #12 (wordlist.txt) – job started") {
		t.Fatalf("unexpected header, got %q", output)
	}
}

func TestConsoleInfoRendersHighlightBullets(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("classification complete",
		String(FieldComponent, "jobs"),
		Int64(FieldJobID, 3),
		Int("hash_count", 42),
		Int("identified", 40),
		Int("unidentified", 2),
	)

	output := buf.String()
	for _, want := range []string{"    - Hashes: 42", "    - Identified: 40", "    - Unidentified: 2"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got %q", want, output)
		}
	}
}

func TestConsoleInfoHidesDebugOnlyKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("job queued",
		Int64(FieldJobID, 4),
		String("fingerprint", "9f86d081884c7d65"),
		String("result_path", "/var/lib/hashhound/results/4.json"),
		String(FieldCorrelationID, "req-1"),
	)

	output := buf.String()
	if strings.Contains(output, "9f86d081884c7d65") {
		t.Fatalf("fingerprint should be hidden at info level, got %q", output)
	}
	if strings.Contains(output, "/var/lib/hashhound/results") {
		t.Fatalf("paths should be hidden at info level, got %q", output)
	}
	if !strings.Contains(output, "more fields hidden") {
		t.Fatalf("expected hidden-field marker, got %q", output)
	}
}

func TestConsoleDebugShowsAllAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelDebug)

	logger.Debug("job queued",
		Int64(FieldJobID, 4),
		String("fingerprint", "9f86d081884c7d65"),
		String("result_path", "/var/lib/hashhound/results/4.json"),
	)

	output := buf.String()
	if !strings.Contains(output, "fingerprint: 9f86d081884c7d65") {
		t.Fatalf("expected fingerprint in debug output, got %q", output)
	}
	if !strings.Contains(output, "result_path: /var/lib/hashhound/results/4.json") {
		t.Fatalf("expected result_path in debug output, got %q", output)
	}
}

func TestConsoleRepeatedInfoSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("poll tick", Int64(FieldJobID, 7), Int("queue_depth", 5))
	first := buf.String()
	buf.Reset()
	logger.Info("poll tick", Int64(FieldJobID, 7), Int("queue_depth", 5))
	second := buf.String()

	if !strings.Contains(first, "    - Queue: 5") {
		t.Fatalf("expected queue bullet on first line, got %q", first)
	}
	if strings.Contains(second, "    - Queue: 5") {
		t.Fatalf("expected repeated field suppressed, got %q", second)
	}
}

func TestConsoleFormatsFriendlyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("job finished",
		Int64(FieldJobID, 9),
		Int64("source_bytes", 3*1024*1024),
		Duration("batch_duration", 2500*time.Millisecond),
		Bool("identified_all", true),
	)

	output := buf.String()
	if !strings.Contains(output, "3.00 MiB") {
		t.Fatalf("expected humanized byte size, got %q", output)
	}
	if !strings.Contains(output, "Duration: 2.5s") {
		t.Fatalf("expected rounded duration, got %q", output)
	}
	if !strings.Contains(output, "Identified All: yes") {
		t.Fatalf("expected boolean rendered as yes, got %q", output)
	}
}

func TestComposeSubject(t *testing.T) {
	cases := []struct {
		name   string
		jobID  string
		source string
		want   string
	}{
		{"both", "12", "/data/in/dump.txt", "Job #12 (dump.txt)"},
		{"job only", "12", "", "Job #12"},
		{"source only", "", "dump.txt", "dump.txt"},
		{"neither", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := composeSubject(tc.jobID, tc.source); got != tc.want {
				t.Fatalf("composeSubject(%q, %q) = %q, want %q", tc.jobID, tc.source, got, tc.want)
			}
		})
	}
}

func TestDedupeKVsByKeyKeepsLastValue(t *testing.T) {
	attrs := []kv{
		{key: "status", value: slog.StringValue("pending")},
		{key: "workers", value: slog.IntValue(4)},
		{key: "status", value: slog.StringValue("running")},
	}
	deduped := dedupeKVsByKey(attrs)
	if len(deduped) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(deduped))
	}
	if deduped[0].key != "status" || attrString(deduped[0].value) != "running" {
		t.Fatalf("expected status to keep most recent value, got %s=%s", deduped[0].key, attrString(deduped[0].value))
	}
}

func TestSelectInfoFieldsHonorsLimit(t *testing.T) {
	attrs := make([]kv, 0, infoAttrLimit+3)
	for _, key := range []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa", "lambda"} {
		attrs = append(attrs, kv{key: key, value: slog.IntValue(1)})
	}
	fields, hidden := selectInfoFields(attrs, infoAttrLimit, false)
	if len(fields) != infoAttrLimit {
		t.Fatalf("expected %d fields, got %d", infoAttrLimit, len(fields))
	}
	if hidden != len(attrs)-infoAttrLimit {
		t.Fatalf("expected %d hidden, got %d", len(attrs)-infoAttrLimit, hidden)
	}
}

func TestDisplayLabelTitleizesUnknownKeys(t *testing.T) {
	cases := map[string]string{
		"hash_count":      "Hashes",
		"event_type":      "Event",
		"custom_key_name": "Custom Key Name",
		"queue_depth":     "Queue",
	}
	for key, want := range cases {
		if got := displayLabel(key); got != want {
			t.Fatalf("displayLabel(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.00 KiB",
		5 * 1024 * 1024: "5.00 MiB",
	}
	for value, want := range cases {
		if got := formatBytes(value); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", value, got, want)
		}
	}
}
