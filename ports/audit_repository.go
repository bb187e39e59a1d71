package ports

import (
	"context"

	"fairselect/domain/audit"
	"fairselect/domain/core"
)

// AuditRepository persists finished audit runs
type AuditRepository interface {
	// Save stores a complete audit record
	Save(ctx context.Context, record *audit.Record) error

	// Get retrieves an audit record by ID
	Get(ctx context.Context, id core.AuditID) (*audit.Record, error)

	// List returns the most recent audit records, newest first
	List(ctx context.Context, limit int) ([]*audit.Record, error)
}
