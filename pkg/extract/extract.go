// Package extract pulls values out of response bodies via dot-delimited
// paths. Numeric path segments index sequences, all others index mappings.
// A failed lookup binds the variable to nil; extraction never errors.
package extract

import (
	"encoding/json"

	"github.com/Jeffail/gabs/v2"
)

// ParseBody decodes a response body as JSON. Bodies that are not valid JSON
// are wrapped as {"text": <raw body>} so the path "text" recovers raw text.
func ParseBody(raw []byte) any {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return map[string]any{"text": string(raw)}
	}
	return doc
}

// Value traverses doc along a dot-delimited path and returns the addressed
// value, or nil if any segment misses (absent key, index out of range, or a
// segment applied to the wrong container kind).
func Value(doc any, path string) any {
	hit := gabs.Wrap(doc).Path(path)
	if hit == nil {
		return nil
	}
	return hit.Data()
}

// FromResponse extracts every configured variable from a raw response body.
// config maps variable names to paths; misses bind to nil.
func FromResponse(raw []byte, config map[string]string) map[string]any {
	doc := ParseBody(raw)
	extracted := make(map[string]any, len(config))
	for name, path := range config {
		extracted[name] = Value(doc, path)
	}
	return extracted
}
