package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	AuditID   ID
	DatasetID ID
)

// String conversions for domain IDs
func (id AuditID) String() string   { return ID(id).String() }
func (id DatasetID) String() string { return ID(id).String() }

// NewAuditID creates a new audit run identifier
func NewAuditID() AuditID {
	return AuditID(NewID())
}

// ParseAuditID parses a string into AuditID, rejecting anything that is not
// a well-formed UUID
func ParseAuditID(s string) (AuditID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("audit ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("malformed audit ID %q: %w", s, err)
	}
	return AuditID(s), nil
}
