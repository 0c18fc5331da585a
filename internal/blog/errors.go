package blog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means no entity matches the given slug or id.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor is authenticated but does not own the
	// resource it is trying to mutate.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries per-field messages for a rejected write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
