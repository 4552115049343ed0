// Package audit persists a trail of authentication and authorization
// events. Recording is advisory: a failed write is logged and never blocks
// or fails the request that produced the event.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Recorder persists audit events.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// PostgresRecorder writes audit events to the audit_events table.
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder creates a recorder and ensures the audit_events table
// exists.
func NewPostgresRecorder(db *sql.DB) (*PostgresRecorder, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	r := &PostgresRecorder{db: db}
	if err := r.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure audit_events table: %w", err)
	}
	return r, nil
}

func (r *PostgresRecorder) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
		event_type VARCHAR(100) NOT NULL,
		principal_id BIGINT,
		tenant_id BIGINT,
		role VARCHAR(50),
		workspace VARCHAR(255),
		request_id VARCHAR(100),
		method VARCHAR(10),
		path TEXT,
		message TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_audit_events_event_type ON audit_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_audit_events_principal_id ON audit_events(principal_id);
	CREATE INDEX IF NOT EXISTS idx_audit_events_tenant_id ON audit_events(tenant_id);
	`
	_, err := r.db.Exec(query)
	return err
}

// Record inserts one audit event. A zero Timestamp is filled in.
func (r *PostgresRecorder) Record(ctx context.Context, event *Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_events (
			timestamp, event_type,
			principal_id, tenant_id, role, workspace,
			request_id, method, path, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		event.Timestamp, event.EventType,
		event.PrincipalID, event.TenantID, string(event.Role), event.Workspace,
		event.RequestID, event.Method, event.Path, event.Message,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}
