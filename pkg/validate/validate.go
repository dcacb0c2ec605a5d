// Package validate checks HTTP responses against step expectations. Every
// check is additive: all declared checks run and each independent violation
// yields one message. An empty slice means the response passed.
package validate

import (
	"fmt"
	"strings"

	"github.com/flowprobe-dev/flowprobe/pkg/client"
	"github.com/flowprobe-dev/flowprobe/pkg/collection"
	"github.com/flowprobe-dev/flowprobe/pkg/core"
	"github.com/flowprobe-dev/flowprobe/pkg/extract"
)

// Response evaluates the response against the expectation and returns one
// message per violation, in check order: status, body, headers, latency.
func Response(resp *client.Response, exp *collection.Expectation) []string {
	var issues []string

	if resp.StatusCode != exp.ExpectedStatus() {
		issues = append(issues, fmt.Sprintf("Expected status %d, got %d", exp.ExpectedStatus(), resp.StatusCode))
	}

	if exp.Body != nil {
		issues = append(issues, checkBody(resp.Body, exp.Body)...)
	}

	for name, want := range exp.Headers {
		got := resp.Headers.Get(name)
		if got == "" && len(resp.Headers.Values(name)) == 0 {
			issues = append(issues, fmt.Sprintf("Missing expected header '%s'", name))
			continue
		}
		if got != want {
			issues = append(issues, fmt.Sprintf("Expected header %s='%v', got '%v'", name, want, got))
		}
	}

	if exp.MaxResponseTime > 0 {
		elapsed := resp.Elapsed.Seconds()
		if elapsed > exp.MaxResponseTime {
			issues = append(issues, fmt.Sprintf("Response time %.2fs exceeds limit %gs", elapsed, exp.MaxResponseTime))
		}
	}

	return issues
}

// checkBody compares the actual body to the expectation. When both sides are
// mappings the expected one is checked as a subset, key by key. Any other
// combination degrades to substring containment of the string forms.
func checkBody(raw []byte, expected any) []string {
	actual := extract.ParseBody(raw)

	expMap, expIsMap := expected.(map[string]any)
	actMap, actIsMap := actual.(map[string]any)
	if expIsMap && actIsMap {
		var issues []string
		for key, want := range expMap {
			got, ok := actMap[key]
			if !ok {
				issues = append(issues, fmt.Sprintf("Missing expected key '%s' in response", key))
				continue
			}
			if !core.Equal(want, got) {
				issues = append(issues, fmt.Sprintf("Expected %s='%v', got '%v'", key, core.Format(want), core.Format(got)))
			}
		}
		return issues
	}

	if !strings.Contains(core.Format(actual), core.Format(expected)) {
		return []string{fmt.Sprintf("Expected body content '%v' not found in response", core.Format(expected))}
	}
	return nil
}
