// Package validator validates collection files before execution. It parses
// all files upfront and detects errors a run would only hit mid-flow:
// unknown methods, unresolvable placeholders, bad expectations.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/flowprobe-dev/flowprobe/pkg/collection"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Files is the list of collection file paths checked.
	Files []string
	// Errors contains all validation errors found.
	Errors []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Validate validates a collection file or a directory of collections.
func Validate(path string) *Result {
	result := &Result{}

	info, err := os.Stat(path)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    path,
			Message: fmt.Sprintf("cannot access: %v", err),
		})
		return result
	}

	var files []string
	if info.IsDir() {
		files, err = collectCollectionFiles(path)
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("failed to scan directory: %v", err),
			})
			return result
		}
	} else {
		files = []string{path}
	}

	for _, file := range files {
		result.Files = append(result.Files, file)
		validateFile(file, result)
	}

	return result
}

// collectCollectionFiles finds all .yaml/.yml/.json files in a directory.
func collectCollectionFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" || ext == ".json" {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func validateFile(path string, result *Result) {
	col, err := collection.ParseFile(path)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    path,
			Message: err.Error(),
		})
		return
	}

	if len(col.Steps) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			File:    path,
			Message: "no steps defined",
		})
		return
	}

	// Names bound before each step: collection variables, the reserved
	// base_url, and everything earlier steps extract.
	bound := map[string]bool{"base_url": true}
	for name := range col.Variables {
		bound[name] = true
	}

	for i := range col.Steps {
		step := &col.Steps[i]
		label := fmt.Sprintf("step %d (%s)", i+1, step.DisplayName(i+1))

		if !knownMethods[step.Method] {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("%s: unknown method %q", label, step.Method),
			})
		}

		checkPlaceholders(path, label, "url", step.URL, bound, result)
		if body, ok := step.Body.(string); ok {
			checkPlaceholders(path, label, "body", body, bound, result)
		}

		if s := step.Expect.Status; s != 0 && (s < 100 || s > 599) {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("%s: expected status %d out of range", label, s),
			})
		}
		if step.Expect.MaxResponseTime < 0 {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("%s: negative max_response_time", label),
			})
		}
		if step.Timeout < 0 {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("%s: negative timeout", label),
			})
		}

		for name, epath := range step.Extract {
			if strings.TrimSpace(epath) == "" {
				result.Errors = append(result.Errors, &ValidationError{
					File:    path,
					Message: fmt.Sprintf("%s: empty extract path for %q", label, name),
				})
			}
			bound[name] = true
		}
	}
}

// checkPlaceholders flags {{name}} references that no variable or earlier
// extraction can satisfy.
func checkPlaceholders(path, label, field, text string, bound map[string]bool, result *Result) {
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if !bound[name] {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("%s: %s references undefined variable %q", label, field, name),
			})
		}
	}
}
