package record

import (
	"fmt"
	"sort"
	"strings"
)

// FieldSet is a closed set of mutable field names for one collection.
// Update construction rejects anything outside the set, so arbitrary
// request keys can never reach the store as field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet from the given names.
func NewFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set.
func (s FieldSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// UnknownFieldsError reports update fields outside a collection's
// mutable set.
type UnknownFieldsError struct {
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return fmt.Sprintf("unknown update fields: %s", strings.Join(e.Fields, ", "))
}

// Update is a built partial-update operation: it sets exactly the
// collected fields plus updatedAt, and leaves every other field of the
// stored record untouched. Field names are carried as data and bound
// parametrically by store implementations, never concatenated into a
// query expression.
type Update struct {
	fields map[string]any
}

// NewUpdate returns an empty update. Applying it still performs the
// store round-trip and refreshes updatedAt.
func NewUpdate() *Update {
	return &Update{fields: make(map[string]any)}
}

// BuildUpdate validates changes against the collection's mutable field
// set and returns the update. Unknown names fail with
// *UnknownFieldsError listing every offender; createdAt and updatedAt
// are never settable by callers.
func BuildUpdate(allowed FieldSet, changes Record) (*Update, error) {
	upd := NewUpdate()
	var unknown []string
	for name, value := range changes {
		if name == FieldCreatedAt || name == FieldUpdatedAt || !allowed.Contains(name) {
			unknown = append(unknown, name)
			continue
		}
		upd.fields[name] = cloneValue(value)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownFieldsError{Fields: unknown}
	}
	return upd, nil
}

// Set adds one field assignment. It is the trusted internal path
// (status toggles, derived fields); request payloads go through
// BuildUpdate instead.
func (u *Update) Set(field string, value any) *Update {
	u.fields[field] = cloneValue(value)
	return u
}

// Fields returns the assignments in deterministic (sorted) order.
func (u *Update) Fields() []FieldValue {
	out := make([]FieldValue, 0, len(u.fields))
	for name, value := range u.fields {
		out = append(out, FieldValue{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of explicit assignments (updatedAt excluded).
func (u *Update) Len() int {
	return len(u.fields)
}

// FieldValue is one field assignment inside an Update.
type FieldValue struct {
	Name  string
	Value any
}
