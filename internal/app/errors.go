package app

import (
	"errors"
	"fmt"
	"strings"

	"studykart/pkg/record"
)

// ErrInvalidCredentials indicates a failed login. The message never
// distinguishes unknown phone from wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports missing required fields or rejected input.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

func invalidInput(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// requireFields checks presence of required fields; string fields must
// be non-blank.
func requireFields(input record.Record, names ...string) error {
	var missing []string
	for _, name := range names {
		v, ok := input[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// buildUpdate runs the partial-update builder and converts unknown
// field names into a ValidationError, keeping the store boundary typed.
func buildUpdate(allowed record.FieldSet, changes record.Record) (*record.Update, error) {
	upd, err := record.BuildUpdate(allowed, changes)
	if err != nil {
		var unknown *record.UnknownFieldsError
		if errors.As(err, &unknown) {
			return nil, invalidInput(unknown.Error())
		}
		return nil, err
	}
	return upd, nil
}
