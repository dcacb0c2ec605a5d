// Package vars implements the variable store threaded through a flow run and
// the {{name}} placeholder substitution applied to step fields.
package vars

import (
	"sort"
	"strings"

	"github.com/flowprobe-dev/flowprobe/pkg/core"
)

// Store is an ordered name→value mapping. Values are only ever added or
// overwritten during a flow run; the store never shrinks. Iteration follows
// insertion order so substitution is deterministic.
type Store struct {
	names  []string
	values map[string]any
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// NewSeeded returns a store populated from seed, keys in sorted order.
func NewSeeded(seed map[string]any) *Store {
	s := New()
	s.Merge(seed)
	return s
}

// Set binds name to value. Overwriting keeps the original position.
func (s *Store) Set(name string, value any) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

// Get returns the bound value and whether the name is defined.
func (s *Store) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Merge binds every entry of m, keys in sorted order for determinism.
func (s *Store) Merge(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, m[k])
	}
}

// Len returns the number of bound names.
func (s *Store) Len() int {
	return len(s.names)
}

// Substitute replaces every {{name}} occurrence in text with the string form
// of the bound value, one replace pass per name in insertion order. Unbound
// placeholders stay verbatim.
func (s *Store) Substitute(text string) string {
	result := text
	for _, name := range s.names {
		placeholder := "{{" + name + "}}"
		if strings.Contains(result, placeholder) {
			result = strings.ReplaceAll(result, placeholder, core.Format(s.values[name]))
		}
	}
	return result
}

// SubstituteValue substitutes placeholders in string values and returns any
// other value unchanged.
func (s *Store) SubstituteValue(v any) any {
	if text, ok := v.(string); ok {
		return s.Substitute(text)
	}
	return v
}
