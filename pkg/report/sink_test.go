package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNDJSONSink_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "results.ndjson")
	s := NewNDJSONSink(path)

	payload := map[string]any{"success": true, "issues": []any{}}
	if err := s.Append("int_tests", payload); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := s.Append("int_tests", map[string]any{"success": false}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		records = append(records, rec)
	}

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	first := records[0]
	if first["tool"] != "int_tests" {
		t.Errorf("tool = %v", first["tool"])
	}
	if first["success"] != true {
		t.Errorf("payload fields should be flattened, got %v", first)
	}
	if first["timestamp"] == nil || first["run_id"] == nil {
		t.Errorf("record missing metadata: %v", first)
	}
	if first["run_id"] != records[1]["run_id"] {
		t.Error("run_id should be stable across appends")
	}
}

func TestNDJSONSink_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "results.ndjson")
	s := NewNDJSONSink(path)

	if err := s.Append("int_tests", map[string]any{}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	var s Sink = Discard{}
	if err := s.Append("int_tests", map[string]any{"x": 1}); err != nil {
		t.Errorf("Discard.Append() error: %v", err)
	}
}
