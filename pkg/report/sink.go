// Package report persists run outcomes. Every engine invocation appends one
// record to an NDJSON log so results accumulate across runs and stay
// greppable per tool.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPath is the result log location relative to the working directory.
const DefaultPath = "logs/qa_results.ndjson"

// Sink receives one record per completed invocation.
type Sink interface {
	Append(tool string, payload any) error
}

// NDJSONSink appends records as JSON lines to a file, one line per call.
// All lines written by one process share a run_id.
type NDJSONSink struct {
	mu    sync.Mutex
	path  string
	runID string
}

// NewNDJSONSink returns a sink writing to path, or DefaultPath if empty.
func NewNDJSONSink(path string) *NDJSONSink {
	if path == "" {
		path = DefaultPath
	}
	return &NDJSONSink{path: path, runID: uuid.NewString()}
}

// Append writes one record. The payload's JSON fields are flattened into the
// record next to timestamp, tool, and run_id.
func (s *NDJSONSink) Append(tool string, payload any) error {
	record := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"tool":      tool,
		"run_id":    s.runID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err == nil {
		for k, v := range fields {
			record[k] = v
		}
	} else {
		record["result"] = json.RawMessage(data)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open result log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append result: %w", err)
	}
	return nil
}

// Discard is a Sink that drops every record.
type Discard struct{}

// Append implements Sink.
func (Discard) Append(string, any) error { return nil }
