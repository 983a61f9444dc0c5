package onboarding

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// uuid.Parse also accepts urn/brace forms and every version, so the wire
// shape is checked against the strict v4 pattern first.
var uuidV4Pattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

func IsUUIDv4(s string) bool {
	return uuidV4Pattern.MatchString(s)
}

// ParseID validates raw as a version 4 UUID. field names the identifier in
// the returned *FormatError.
func ParseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if !IsUUIDv4(raw) {
		return uuid.Nil, &FormatError{Field: field, Value: raw, Reason: "must be a version 4 UUID"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &FormatError{Field: field, Value: raw, Reason: "must be a version 4 UUID"}
	}
	return id, nil
}

func NewID() string {
	return uuid.NewString()
}
