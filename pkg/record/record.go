package record

import (
	"fmt"
	"strconv"
	"time"
)

// TimeFormat is the wire format for createdAt/updatedAt values:
// UTC ISO-8601 with millisecond precision. Lexicographic order equals
// chronological order, which the filter engine relies on.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Record is one schemaless entity instance: a mapping of field name to
// value. Values are plain JSON-compatible types (string, float64, bool,
// []any, map[string]any) plus int/int64 for counters written in-process.
type Record map[string]any

// Clone returns a deep copy so callers can never mutate stored state.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Record:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item).(map[string]any)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// String returns the field as a string, or "" when absent or non-string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Int returns the field coerced to int64. JSON numbers arrive as
// float64; counters written in-process may be int or int64.
func (r Record) Int(field string) int64 {
	switch v := r[field].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// Float returns the field coerced to float64.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// Strings returns the field as a string slice. JSON arrays decode as
// []any, so both representations are accepted.
func (r Record) Strings(field string) []string {
	switch v := r[field].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// CreatedAt parses the record's creation timestamp, zero time on failure.
func (r Record) CreatedAt() time.Time {
	t, _ := time.Parse(TimeFormat, r.String(FieldCreatedAt))
	return t
}

// FormatTime renders a timestamp in the record wire format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// valueString renders any field value for equality/sort comparison.
func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
