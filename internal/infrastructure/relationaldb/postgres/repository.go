// Package postgres provides a PostgreSQL implementation of the SessionStore interface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // Registers the "pgx" database/sql driver

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

// pingTimeout bounds the connectivity check in NewRepository.
const pingTimeout = 10 * time.Second

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.SessionStore using PostgreSQL.
type Repository struct {
	db *sql.DB
}

var _ ports.SessionStore = (*Repository)(nil)

// NewRepository connects to PostgreSQL and checks the connection.
func NewRepository(cfg config.PostgresConfig) (*Repository, error) {
	if !cfg.Enabled() {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (name, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name)`,
		`CREATE TABLE IF NOT EXISTS rolls (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			session TEXT NOT NULL,
			table_id TEXT NOT NULL,
			roll INTEGER NOT NULL,
			text TEXT NOT NULL,
			fallback BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rolls_session ON rolls(session, created_at)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id BIGSERIAL PRIMARY KEY,
			action TEXT NOT NULL,
			subject_id TEXT,
			details TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_subject ON audit_log(subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// SaveSnapshot stores data as the next version of the named session.
// Concurrent writers to one session serialize on an advisory lock.
func (r *Repository) SaveSnapshot(ctx context.Context, name string, data []byte) (*entities.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return nil, fmt.Errorf("locking session %q: %w", name, err)
	}

	var latest sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT MAX(version) FROM snapshots WHERE name = $1`, name).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("finding latest snapshot version: %w", err)
	}

	snap := &entities.Snapshot{
		ID:        uuid.New().String(),
		Name:      name,
		Version:   int(latest.Int64) + 1,
		Data:      data,
		CreatedAt: timeNow(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, name, version, data, created_at) VALUES ($1, $2, $3, $4, $5)`,
		snap.ID, snap.Name, snap.Version, string(snap.Data), snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot returns the latest version of the named session, or nil.
func (r *Repository) LoadSnapshot(ctx context.Context, name string) (*entities.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, version, data, created_at
		FROM snapshots
		WHERE name = $1
		ORDER BY version DESC
		LIMIT 1
	`, name)

	var snap entities.Snapshot
	var data string
	err := row.Scan(&snap.ID, &snap.Name, &snap.Version, &data, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	snap.Data = []byte(data)
	return &snap, nil
}

// ListSnapshots summarises every saved session, ordered by name.
func (r *Repository) ListSnapshots(ctx context.Context) ([]entities.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, COUNT(*), MAX(created_at)
		FROM snapshots
		GROUP BY name
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var infos []entities.SnapshotInfo
	for rows.Next() {
		var info entities.SnapshotInfo
		if err := rows.Scan(&info.Name, &info.Versions, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSnapshot removes every version of the named session.
func (r *Repository) DeleteSnapshot(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &entities.SnapshotNotFoundError{Name: name}
	}
	return nil
}

// LogRoll appends a resolution to the roll history.
func (r *Repository) LogRoll(ctx context.Context, record *entities.RollRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = timeNow()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rolls (id, session, table_id, roll, text, fallback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, record.ID, record.Session, record.TableID, record.Roll, record.Text, record.Fallback, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("logging roll: %w", err)
	}
	return nil
}

// ListRolls returns the most recent rolls for a session, newest first.
// A limit of zero or less returns every roll.
func (r *Repository) ListRolls(ctx context.Context, session string, limit int) ([]entities.RollRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session, table_id, roll, text, fallback, created_at
		FROM rolls
		WHERE session = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	`, session, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("querying rolls: %w", err)
	}
	defer rows.Close()

	var records []entities.RollRecord
	for rows.Next() {
		var rec entities.RollRecord
		if err := rows.Scan(&rec.ID, &rec.Session, &rec.TableID, &rec.Roll, &rec.Text, &rec.Fallback, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning roll: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, subjectID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	subject := sql.NullString{String: subjectID, Valid: subjectID != ""}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (action, subject_id, details) VALUES ($1, $2, $3)`,
		action, subject, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLogByAction finds audit log entries by action type.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, subject_id, details, created_at
		FROM audit_log
		WHERE action = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, action, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.AuditEntry, 0, max(limit, 0))
	for rows.Next() {
		var entry entities.AuditEntry
		var subjectID, details sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Action, &subjectID, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.SubjectID = subjectID.String
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// limitOrAll maps a non-positive limit to NULL, which PostgreSQL reads as LIMIT ALL.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
