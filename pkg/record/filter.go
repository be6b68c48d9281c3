package record

import (
	"sort"
	"strconv"
	"strings"
)

// SearchFilter is the reserved filter name carrying a free-text query.
// It matches as a case-insensitive substring over Options.SearchFields
// and is AND-combined with the equality filters.
const SearchFilter = "search"

// Options controls filtering and ordering for Apply.
type Options struct {
	// SearchFields are the text fields the reserved "search" filter
	// scans. When empty, a "search" filter matches nothing.
	SearchFields []string
	// SortKey defaults to createdAt.
	SortKey string
	// Descending defaults to true when SortKey is unset (newest first).
	Descending bool
}

// DefaultOptions returns the standard listing behavior: createdAt
// descending, no search fields.
func DefaultOptions() Options {
	return Options{SortKey: FieldCreatedAt, Descending: true}
}

// Apply filters the full scan result and sorts it. Empty filter values
// mean "no constraint". Equality is exact on the string rendering of
// the field (string/number, no partial match). The sort is stable, so
// ties keep input order.
func Apply(records []Record, filters map[string]string, opts Options) []Record {
	if opts.SortKey == "" {
		opts.SortKey = FieldCreatedAt
		opts.Descending = true
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, filters, opts.SearchFields) {
			out = append(out, rec)
		}
	}
	sortRecords(out, opts.SortKey, opts.Descending)
	return out
}

func matches(rec Record, filters map[string]string, searchFields []string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		if name == SearchFilter {
			if !matchesSearch(rec, want, searchFields) {
				return false
			}
			continue
		}
		if valueString(rec[name]) != want {
			return false
		}
	}
	return true
}

func matchesSearch(rec Record, query string, searchFields []string) bool {
	query = strings.ToLower(query)
	for _, field := range searchFields {
		if strings.Contains(strings.ToLower(rec.String(field)), query) {
			return true
		}
	}
	return false
}

func sortRecords(records []Record, key string, descending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		less := compareValues(records[i][key], records[j][key])
		if descending {
			return less > 0
		}
		return less < 0
	})
}

// compareValues orders two field values: numerically when both parse as
// numbers, lexicographically otherwise. ISO-8601 timestamps compare
// correctly as strings.
func compareValues(a, b any) int {
	as, bs := valueString(a), valueString(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(as, bs)
}
