// Package lint executes linter commands and normalizes their output into a
// uniform issue list, whatever format the linter speaks: ESLint JSON, pylint
// JSON, or the common file:line:col text shapes.
package lint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// commandTimeout bounds a single linter invocation.
const commandTimeout = 5 * time.Minute

// Issue is one normalized linter finding. Severity is 1 for errors, 0
// otherwise, matching ESLint's convention.
type Issue struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity int    `json:"severity"`
}

// Result is the outcome of one linter run. Success means the command
// executed; linters signal findings through issues, not exit codes.
type Result struct {
	Success bool    `json:"success"`
	Issues  []Issue `json:"issues"`
	Message string  `json:"message,omitempty"`
}

// Run executes cmd with a 5-minute timeout and parses its combined output.
func Run(ctx context.Context, cmd []string) *Result {
	result := &Result{Issues: []Issue{}}
	if len(cmd) == 0 {
		result.Issues = append(result.Issues, Issue{
			Type:     "lint",
			Location: "system",
			Message:  "No linter command given",
			Code:     "error",
		})
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...) //#nosec G204 -- command is operator-provided
	var stdout, stderr strings.Builder
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if ctx.Err() == context.DeadlineExceeded {
		result.Issues = append(result.Issues, Issue{
			Type:     "lint",
			Location: "system",
			Message:  fmt.Sprintf("Linter command timed out: %s", strings.Join(cmd, " ")),
			Code:     "timeout",
		})
		return result
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		result.Issues = append(result.Issues, Issue{
			Type:     "lint",
			Location: "system",
			Message:  fmt.Sprintf("Linter command not found: %s", cmd[0]),
			Code:     "not_found",
		})
		return result
	}
	// Nonzero exits are expected: linters exit 1 when they find issues.

	combined := stdout.String() + stderr.String()
	result.Issues = parseOutput(cmd, stdout.String(), combined)
	result.Success = true
	return result
}

// parseOutput picks a parser from the command shape. JSON-format invocations
// of eslint and pylint get their dedicated parsers; everything else falls
// back to the generic text patterns.
func parseOutput(cmd []string, stdout, combined string) []Issue {
	if !wantsJSON(cmd) {
		return parseText(combined)
	}

	tool := strings.ToLower(cmd[0])
	switch {
	case strings.Contains(tool, "eslint"):
		return parseESLintJSON(stdout)
	case strings.Contains(tool, "pylint"):
		return parsePylintJSON(stdout)
	}

	var data any
	if err := json.Unmarshal([]byte(stdout), &data); err == nil {
		return []Issue{{Type: "lint", Location: "unknown", Message: fmt.Sprintf("%v", data)}}
	}
	return parseText(combined)
}

func wantsJSON(cmd []string) bool {
	for i, arg := range cmd {
		if strings.Contains(arg, "format=json") || strings.Contains(arg, "output-format=json") {
			return true
		}
		if (arg == "-f" || arg == "--format") && i+1 < len(cmd) && cmd[i+1] == "json" {
			return true
		}
	}
	return false
}

type eslintFile struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		Line     int    `json:"line"`
		Column   int    `json:"column"`
		Message  string `json:"message"`
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"`
	} `json:"messages"`
}

func parseESLintJSON(output string) []Issue {
	var files []eslintFile
	if err := json.Unmarshal([]byte(output), &files); err != nil {
		return []Issue{}
	}

	issues := []Issue{}
	for _, f := range files {
		for _, m := range f.Messages {
			issues = append(issues, Issue{
				Type:     "lint",
				Location: fmt.Sprintf("%s:%d:%d", f.FilePath, m.Line, m.Column),
				Message:  m.Message,
				Code:     m.RuleID,
				Severity: m.Severity,
			})
		}
	}
	return issues
}

type pylintItem struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Message   string `json:"message"`
	MessageID string `json:"message-id"`
	Kind      string `json:"type"`
}

func parsePylintJSON(output string) []Issue {
	var items []pylintItem
	if err := json.Unmarshal([]byte(output), &items); err != nil {
		return []Issue{}
	}

	issues := []Issue{}
	for _, item := range items {
		severity := 0
		if item.Kind == "error" {
			severity = 1
		}
		issues = append(issues, Issue{
			Type:     "lint",
			Location: fmt.Sprintf("%s:%d:%d", item.Path, item.Line, item.Column),
			Message:  item.Message,
			Code:     item.MessageID,
			Severity: severity,
		})
	}
	return issues
}

var textPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^([^:\s][^:]*):(\d+):(\d+):\s*(.+)$`),  // file:line:col: message
	regexp.MustCompile(`(?m)^([^:\s][^:]*):(\d+):\s*(.+)$`),        // file:line: message
	regexp.MustCompile(`(?m)^([^(\s][^(]*)\((\d+),(\d+)\):\s*(.+)$`), // file(line,col): message
	regexp.MustCompile(`(?m)^([^(\s][^(]*)\((\d+)\):\s*(.+)$`),     // file(line): message
}

func parseText(output string) []Issue {
	issues := []Issue{}
	for _, re := range textPatterns {
		for _, m := range re.FindAllStringSubmatch(output, -1) {
			file, line := m[1], m[2]
			col := "0"
			message := m[len(m)-1]
			if len(m) > 4 {
				col = m[3]
			}

			severity := 0
			lower := strings.ToLower(message)
			if strings.Contains(lower, "error") || strings.Contains(lower, "fail") {
				severity = 1
			}

			issues = append(issues, Issue{
				Type:     "lint",
				Location: fmt.Sprintf("%s:%s:%s", file, line, col),
				Message:  strings.TrimSpace(message),
				Severity: severity,
			})
		}
	}
	return issues
}
