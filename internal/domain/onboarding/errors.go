package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("session not found")

// FormatError reports a malformed identifier or request shape. It is always
// raised before any backend is touched.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e == nil {
		return "invalid request"
	}
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) Message() string {
	if v.Field == "" {
		return v.Reason
	}
	return v.Field + " " + v.Reason
}

// Violations is ordered: schema declaration order within an entity, element
// order within a collection, collection-level entries last.
type Violations []Violation

// Prefixed returns a copy with every field path nested under prefix.
func (vs Violations) Prefixed(prefix string) Violations {
	if len(vs) == 0 {
		return nil
	}
	out := make(Violations, len(vs))
	for i, v := range vs {
		out[i] = Violation{Field: JoinPath(prefix, v.Field), Reason: v.Reason}
	}
	return out
}

// Err returns nil for an empty list.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: append(Violations(nil), vs...)}
}

func JoinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

type ValidationError struct {
	Violations Violations
}

// Error is the headline: the first violation's message.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	return e.Violations[0].Message()
}

// StoreError hides backend details from callers. The cause is kept for
// logging through Unwrap.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil || e.Op == "" {
		return "storage backend failure"
	}
	return fmt.Sprintf("failed to %s", e.Op)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
