package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{" info ", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("Invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestJSONLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept", Count(3))
	logger.Error("kept too", Error(errors.New("boom")))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %s", len(entries), buf.String())
	}
	if entries[0].Level != "WARN" || entries[0].Message != "kept" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[0].Fields["count"] != float64(3) {
		t.Errorf("count field = %v", entries[0].Fields["count"])
	}
	if entries[1].Fields["error"] != "boom" {
		t.Errorf("error field = %v", entries[1].Fields["error"])
	}
}

func TestJSONLogger_WithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	root := NewJSONLogger(&buf, DebugLevel)
	child := root.With(ExperimentID("exp-1"), Policy("HighDegree"))

	child.Info("trial finished", Trial(4))
	root.Info("no fields")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	f := entries[0].Fields
	if f["experiment_id"] != "exp-1" || f["policy"] != "HighDegree" || f["trial"] != float64(4) {
		t.Errorf("Child fields not merged: %v", f)
	}
	if entries[1].Fields != nil {
		t.Errorf("Parent should not inherit child fields, got %v", entries[1].Fields)
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	logger.SetLevel(ErrorLevel)

	if logger.GetLevel() != ErrorLevel {
		t.Fatalf("GetLevel() = %v, want ERROR", logger.GetLevel())
	}
	logger.Warn("ignored")
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestJSONLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			l := logger.With(Int("worker", worker))
			for j := 0; j < 25; j++ {
				l.Info("tick", Trial(j))
			}
		}(i)
	}
	wg.Wait()

	if got := len(decodeLines(t, &buf)); got != 200 {
		t.Errorf("Expected 200 lines, got %d", got)
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("k", "v"), "k", "v"},
		{"Int", Int("n", 7), "n", 7},
		{"Float64", Float64("f", 0.4), "f", 0.4},
		{"Bool", Bool("b", true), "b", true},
		{"Duration", Duration("d", 2*time.Second), "d", "2s"},
		{"NilError", Error(nil), "error", nil},
		{"Component", Component("runner"), "component", "runner"},
		{"Operation", Operation("compare"), "operation", "compare"},
		{"Path", Path("/tmp/out.csv"), "path", "/tmp/out.csv"},
		{"Policy", Policy("Random"), "policy", "Random"},
		{"Trial", Trial(3), "trial", 3},
		{"Seed", Seed(99), "seed", uint64(99)},
		{"Population", Population(100), "population", 100},
		{"ExperimentID", ExperimentID("abc"), "experiment_id", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestTimedOperation(t *testing.T) {
	rec := NewRecorder()

	StartTimer(rec, "build graph", Population(10)).End(Count(2))
	StartTimer(rec, "export").EndError(errors.New("disk full"))

	records := rec.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Level != InfoLevel || records[0].Fields["population"] != 10 || records[0].Fields["count"] != 2 {
		t.Errorf("Unexpected End record: %+v", records[0])
	}
	if _, ok := records[0].Fields["latency"]; !ok {
		t.Error("End should attach latency")
	}
	if records[1].Level != ErrorLevel || records[1].Fields["error"] != "disk full" {
		t.Errorf("Unexpected EndError record: %+v", records[1])
	}
}

func TestRecorder_WithSharesBuffer(t *testing.T) {
	rec := NewRecorder()
	child := rec.With(Policy("Random"))

	child.Warn("clamped")
	rec.Debug("root")

	if got := rec.Messages(WarnLevel); len(got) != 1 || got[0] != "clamped" {
		t.Errorf("Warn messages = %v", got)
	}
	if got := rec.Records(); len(got) != 2 || got[0].Fields["policy"] != "Random" {
		t.Errorf("Records = %+v", got)
	}

	rec.SetLevel(ErrorLevel)
	rec.Info("filtered")
	if len(rec.Records()) != 2 {
		t.Error("SetLevel should filter lower levels")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("nothing")
	if l.With(Count(1)).GetLevel() != InfoLevel {
		t.Error("NopLogger should report InfoLevel")
	}
}
