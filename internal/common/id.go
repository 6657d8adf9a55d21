package common

import (
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque record identifier. Its concrete shape depends on the active
// storage backend: a 24-hex ObjectID for the document store, a UUID string for
// the relational store.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

func NewUUID() ID {
	return ID(uuid.NewString())
}

func ParseID(value string) (ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", NewValidationError("invalid id", map[string]string{"id": "id is required"})
	}
	return ID(value), nil
}

func IDs(values []string) []ID {
	out := make([]ID, 0, len(values))
	for _, value := range values {
		out = append(out, ID(value))
	}
	return out
}
