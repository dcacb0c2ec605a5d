// Package logscan classifies stdout/stderr buffers: errors, warnings, stack
// traces, HTTP error codes, and a few infrastructure failure shapes. The
// scanner is stateless; each call analyzes one complete text buffer.
package logscan

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity levels attached to classified lines.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Issue is one classified log finding.
type Issue struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Context  string `json:"context"`
}

// Result is the outcome of one scan. Success is false iff any high severity
// issue was found.
type Result struct {
	Success bool    `json:"success"`
	Issues  []Issue `json:"issues"`
}

type pattern struct {
	name     string
	re       *regexp.Regexp
	severity string
}

var linePatterns = []pattern{
	{"error", regexp.MustCompile(`(?i)\b(ERROR|FATAL|CRITICAL|EXCEPTION|FAILED?)\b`), SeverityHigh},
	{"warning", regexp.MustCompile(`(?i)\b(WARN|WARNING|CAUTION)\b`), SeverityMedium},
	{"stack_trace", regexp.MustCompile(`(?i)^\s*at\s+.*\(.*:\d+:\d+\)|^\s*File\s+".*", line\s+\d+|Traceback \(most recent call last\)`), SeverityHigh},
	{"http_error", regexp.MustCompile(`\b(4\d{2}|5\d{2})\b`), SeverityMedium},
	{"db_error", regexp.MustCompile(`(?i)\b(SQL|Database|Connection)\s*(Error|Exception|Failed)`), SeverityHigh},
	{"network_error", regexp.MustCompile(`(?i)\b(timeout|connection\s+refused|network\s+error|dns\s+error)\b`), SeverityMedium},
	{"resource_error", regexp.MustCompile(`(?i)\b(out\s+of\s+memory|memory\s+error|disk\s+full|resource\s+exhausted)\b`), SeverityHigh},
	{"security_issue", regexp.MustCompile(`(?i)\b(unauthorized|forbidden|access\s+denied|authentication\s+failed|permission\s+denied)\b`), SeverityHigh},
}

var sourceFileRe = regexp.MustCompile(`([^/\s]+\.(py|js|ts|java|cpp|c|rb|go|php|rs))`)

var buildFailureTerms = []string{"build failed", "compilation error", "make: ***"}

// Scan classifies text line by line and with a few whole-buffer checks.
func Scan(text string) *Result {
	result := &Result{Success: true, Issues: []Issue{}}

	if strings.TrimSpace(text) == "" {
		return result
	}

	lines := strings.Split(text, "\n")

	for idx, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		for _, p := range linePatterns {
			if !p.re.MatchString(line) {
				continue
			}

			location := fmt.Sprintf("line %d", idx+1)
			if m := sourceFileRe.FindString(line); m != "" {
				location = fmt.Sprintf("%s:%d", m, idx+1)
			}

			result.Issues = append(result.Issues, Issue{
				Type:     "log",
				Location: location,
				Message:  stripped,
				Category: p.name,
				Severity: p.severity,
				Context:  extractContext(lines, idx, 2),
			})
		}
	}

	lower := strings.ToLower(text)

	if pos := strings.Index(lower, "traceback (most recent call last)"); pos >= 0 {
		startLine := strings.Count(text[:pos], "\n")
		result.Issues = append(result.Issues, Issue{
			Type:     "log",
			Location: fmt.Sprintf("line %d", startLine+1),
			Message:  "Python traceback detected",
			Category: "stack_trace",
			Severity: SeverityHigh,
			Context:  extractContext(lines, startLine, 5),
		})
	}

	for _, term := range buildFailureTerms {
		if strings.Contains(lower, term) {
			context := text
			if len(context) > 500 {
				context = context[:500] + "..."
			}
			result.Issues = append(result.Issues, Issue{
				Type:     "log",
				Location: "build",
				Message:  "Build or compilation failure detected",
				Category: "build_error",
				Severity: SeverityHigh,
				Context:  context,
			})
			break
		}
	}

	for _, issue := range result.Issues {
		if issue.Severity == SeverityHigh {
			result.Success = false
			break
		}
	}

	return result
}

// extractContext renders the lines around idx, marking the matched line.
func extractContext(lines []string, idx, size int) string {
	start := idx - size
	if start < 0 {
		start = 0
	}
	end := idx + size + 1
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		marker := "    "
		if i == idx {
			marker = ">>> "
		}
		out = append(out, marker+lines[i])
	}
	return strings.Join(out, "\n")
}
