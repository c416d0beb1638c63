// Package sqlite provides a SQLite implementation of the SessionStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.SessionStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

var _ ports.SessionStore = (*Repository)(nil)

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Session snapshots (every save is a new version)
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version INTEGER NOT NULL,
		data TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(name, version)
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name);

	-- Roll history
	CREATE TABLE IF NOT EXISTS rolls (
		id TEXT PRIMARY KEY,
		session TEXT NOT NULL,
		table_id TEXT NOT NULL,
		roll INTEGER NOT NULL,
		text TEXT NOT NULL,
		fallback INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_rolls_session ON rolls(session, created_at);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		subject_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_subject ON audit_log(subject_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores data as the next version of the named session.
func (r *Repository) SaveSnapshot(ctx context.Context, name string, data []byte) (*entities.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var latest sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT MAX(version) FROM snapshots WHERE name = ?`, name).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("finding latest snapshot version: %w", err)
	}

	snap := &entities.Snapshot{
		ID:        generateUUID(),
		Name:      name,
		Version:   int(latest.Int64) + 1,
		Data:      data,
		CreatedAt: timeNow(),
	}

	query := `
		INSERT INTO snapshots (id, name, version, data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		snap.ID,
		snap.Name,
		snap.Version,
		string(snap.Data),
		snap.CreatedAt,
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
	query := `
		SELECT id, name, version, data, created_at
		FROM snapshots
		WHERE name = ?
		ORDER BY version DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, name)

	var snap entities.Snapshot
	var data string

	err := row.Scan(
		&snap.ID,
		&snap.Name,
		&snap.Version,
		&data,
		&snap.CreatedAt,
	)
	if err == sql.ErrNoRows {
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
	query := `
		SELECT name, COUNT(*), MAX(created_at)
		FROM snapshots
		GROUP BY name
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var infos []entities.SnapshotInfo
	for rows.Next() {
		var info entities.SnapshotInfo
		var updated any
		if err := rows.Scan(&info.Name, &info.Versions, &updated); err != nil {
			return nil, fmt.Errorf("scanning snapshot info: %w", err)
		}
		info.UpdatedAt = parseTime(updated)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSnapshot removes every version of the named session.
func (r *Repository) DeleteSnapshot(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
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
		record.ID = generateUUID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = timeNow()
	}

	query := `
		INSERT INTO rolls (id, session, table_id, roll, text, fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Session,
		record.TableID,
		record.Roll,
		record.Text,
		boolToInt(record.Fallback),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("logging roll: %w", err)
	}
	return nil
}

// ListRolls returns the most recent rolls for a session, newest first.
func (r *Repository) ListRolls(ctx context.Context, session string, limit int) ([]entities.RollRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `
		SELECT id, session, table_id, roll, text, fallback, created_at
		FROM rolls
		WHERE session = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, session, limit)
	if err != nil {
		return nil, fmt.Errorf("querying rolls: %w", err)
	}
	defer rows.Close()

	var records []entities.RollRecord
	for rows.Next() {
		var rec entities.RollRecord
		var fallback int
		if err := rows.Scan(
			&rec.ID,
			&rec.Session,
			&rec.TableID,
			&rec.Roll,
			&rec.Text,
			&fallback,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning roll: %w", err)
		}
		rec.Fallback = fallback != 0
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

	var subjectIDPtr sql.NullString
	if subjectID != "" {
		subjectIDPtr = sql.NullString{String: subjectID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, subject_id, details) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, subjectIDPtr, detailsJSON)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLogByAction finds audit log entries by action type.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, subject_id, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, action, limit)
}

// queryAuditLog is a helper to execute audit log queries.
func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	// Use limit parameter as capacity hint if available
	var entries []entities.AuditEntry
	if len(args) > 0 {
		if limit, ok := args[len(args)-1].(int); ok && limit > 0 {
			entries = make([]entities.AuditEntry, 0, limit)
		}
	}

	for rows.Next() {
		var entry entities.AuditEntry
		var subjectID, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&subjectID,
			&details,
			&entry.CreatedAt,
		); err != nil {
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTime reads an aggregate timestamp, which the driver may return as
// time.Time or as text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
