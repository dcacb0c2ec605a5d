// Package core provides the result model shared by the flow engine and its
// collaborators: issues, flow results, and the value-kind taxonomy used when
// comparing and formatting response data.
package core

import (
	"encoding/json"
	"strconv"
)

// Kind classifies a decoded YAML/JSON value. Every value the engine handles
// falls into exactly one kind; callers switch over Kind instead of repeating
// type assertions at each site.
type Kind int

// Kind values.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// KindOf classifies a value decoded from YAML or JSON.
// Unrecognized Go types classify as KindString via their formatted form.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case map[string]any:
		return KindMapping
	case []any:
		return KindSequence
	default:
		return KindString
	}
}

// Equal reports deep equality between two decoded values. Numbers compare by
// value regardless of representation (YAML decodes integers as int, JSON as
// float64); all other kinds must match exactly.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindNumber:
		return toFloat(a) == toFloat(b)
	case KindString:
		return Format(a) == Format(b)
	case KindMapping:
		ma, mb := a.(map[string]any), b.(map[string]any)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	case KindSequence:
		sa, sb := a.([]any), b.([]any)
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !Equal(sa[i], sb[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Format returns the string form of a value, used for placeholder substitution
// and validation messages. Integral floats render without a decimal point so
// an extracted JSON number substitutes as "7", not "7.000000". Mappings and
// sequences render as compact JSON.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	}
	return 0
}
