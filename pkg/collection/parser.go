package collection

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError represents a collection parsing error with location info.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ParseFile parses a collection file.
func ParseFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided collection file
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse parses YAML or JSON collection content.
func Parse(data []byte, sourcePath string) (*Collection, error) {
	var col Collection
	if err := yaml.Unmarshal(data, &col); err != nil {
		return nil, &ParseError{
			Path:    sourcePath,
			Message: yamlMessage(err),
		}
	}

	for i := range col.Steps {
		step := &col.Steps[i]
		if step.URL == "" {
			return nil, &ParseError{
				Path:    sourcePath,
				Message: fmt.Sprintf("step %d: missing url", i+1),
			}
		}
		if step.Method == "" {
			step.Method = "GET"
		} else {
			step.Method = strings.ToUpper(step.Method)
		}
	}

	return &col, nil
}

func yamlMessage(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, "yaml: ")
}
