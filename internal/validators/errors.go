package validators

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
	ErrInvalidRecord   = errors.New("invalid record")
	ErrMissingID       = errors.New("record id is required")
)

// FieldErrors maps the JSON name of every failing field to the rule it
// broke. It unwraps to [ErrInvalidRecord].
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e[name]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRecord, strings.Join(parts, ", "))
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalidRecord
}
