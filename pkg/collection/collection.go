// Package collection handles parsing and representation of flowprobe
// collection files: named sequences of HTTP steps with expectations and
// variable extraction rules. Collections load from YAML or JSON (JSON being a
// YAML subset) and are immutable after parsing.
package collection

import (
	"fmt"
	"time"
)

const (
	// DefaultTimeout applies to steps that do not declare one.
	DefaultTimeout = 30 * time.Second

	// DefaultStatus applies to expectations that do not declare one.
	DefaultStatus = 200
)

// Collection is one ordered integration flow.
type Collection struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Variables   map[string]any `yaml:"variables,omitempty" json:"variables,omitempty"`
	Steps       []Step         `yaml:"steps" json:"steps"`
}

// Step is one HTTP request with its expectations and extraction rules.
type Step struct {
	Name    string            `yaml:"name,omitempty" json:"name,omitempty"`
	Method  string            `yaml:"method,omitempty" json:"method,omitempty"`
	URL     string            `yaml:"url" json:"url"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    any               `yaml:"body,omitempty" json:"body,omitempty"`
	Timeout float64           `yaml:"timeout,omitempty" json:"timeout,omitempty"` // seconds
	Expect  Expectation       `yaml:"expect,omitempty" json:"expect,omitempty"`
	Extract map[string]string `yaml:"extract,omitempty" json:"extract,omitempty"`
}

// Expectation declares what a step's response must satisfy. Zero values mean
// "not checked" except Status, which defaults to 200.
type Expectation struct {
	Status          int               `yaml:"status,omitempty" json:"status,omitempty"`
	Body            any               `yaml:"body,omitempty" json:"body,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	MaxResponseTime float64           `yaml:"max_response_time,omitempty" json:"max_response_time,omitempty"` // seconds
}

// DisplayName returns the step's declared name or "Step N" for the 1-based
// position idx.
func (s *Step) DisplayName(idx int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Step %d", idx)
}

// TimeoutDuration returns the step timeout as a duration, applying the
// default when unset.
func (s *Step) TimeoutDuration() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(s.Timeout * float64(time.Second))
}

// ExpectedStatus returns the declared status code, applying the default when
// unset.
func (e *Expectation) ExpectedStatus() int {
	if e.Status == 0 {
		return DefaultStatus
	}
	return e.Status
}
