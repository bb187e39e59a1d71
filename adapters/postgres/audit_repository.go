package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fairselect/domain/audit"
	"fairselect/domain/core"
	"fairselect/ports"
)

// auditRepository implements ports.AuditRepository on postgres
type auditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sqlx.DB) ports.AuditRepository {
	return &auditRepository{db: db}
}

// Migrate creates the audits table if it does not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS audits (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		config JSONB NOT NULL,
		cutoffs JSONB NOT NULL,
		achieved_k INT NOT NULL,
		iterations INT NOT NULL,
		threshold DOUBLE PRECISION NOT NULL,
		report JSONB NOT NULL,
		runtime_ms BIGINT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create audits table: %w", err)
	}
	return nil
}

// Save inserts a finished audit record
func (r *auditRepository) Save(ctx context.Context, record *audit.Record) error {
	configJSON, err := json.Marshal(record.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cutoffsJSON, err := json.Marshal(record.Cutoffs)
	if err != nil {
		return fmt.Errorf("failed to marshal cutoffs: %w", err)
	}
	reportJSON, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO audits (
		id, created_at, config, cutoffs, achieved_k, iterations, threshold, report, runtime_ms
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.CreatedAt, configJSON, cutoffsJSON,
		record.AchievedK, record.Iterations, record.Threshold, reportJSON, record.RuntimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves an audit record by ID
func (r *auditRepository) Get(ctx context.Context, id core.AuditID) (*audit.Record, error) {
	query := `SELECT id, created_at, config, cutoffs, achieved_k, iterations, threshold, report, runtime_ms
		FROM audits WHERE id = $1`

	record, err := scanRecord(r.db.QueryRowxContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("audit %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit %s: %w", id, err)
	}
	return record, nil
}

// List returns the most recent audit records, newest first
func (r *auditRepository) List(ctx context.Context, limit int) ([]*audit.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, created_at, config, cutoffs, achieved_k, iterations, threshold, report, runtime_ms
		FROM audits ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*audit.Record, error) {
	var record audit.Record
	var configJSON, cutoffsJSON, reportJSON []byte

	err := row.Scan(&record.ID, &record.CreatedAt, &configJSON, &cutoffsJSON,
		&record.AchievedK, &record.Iterations, &record.Threshold, &reportJSON, &record.RuntimeMs)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &record.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := json.Unmarshal(cutoffsJSON, &record.Cutoffs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cutoffs: %w", err)
	}
	if err := json.Unmarshal(reportJSON, &record.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &record, nil
}
