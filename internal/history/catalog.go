package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrRecordNotFound is returned when a snapshot ID is not in the catalog.
var ErrRecordNotFound = errors.New("history: snapshot not found")

// Catalog manages snapshot metadata in history.db.
type Catalog interface {
	// Register adds a snapshot record.
	Register(ctx context.Context, rec *Record) error

	// Get retrieves a single snapshot by ID.
	Get(ctx context.Context, snapshotID string) (*Record, error)

	// Latest returns the newest snapshot of a document name, or nil.
	Latest(ctx context.Context, name string) (*Record, error)

	// List returns the snapshots of a document name, newest first.
	// An empty name lists every snapshot.
	List(ctx context.Context, name string) ([]*Record, error)

	// Delete removes snapshot records by ID.
	Delete(ctx context.Context, snapshotIDs []string) error

	// Close closes the catalog database connection.
	Close() error
}

// Record represents a snapshot in the catalog.
type Record struct {
	SnapshotID   string
	DocumentID   string
	DocumentName string
	ObjectPath   string
	Fingerprint  uint64
	SizeBytes    int64
	Label        string
	CreatedAt    time.Time
}

// SQLiteCatalog implements Catalog using SQLite.
type SQLiteCatalog struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex // Write-only lock (reads don't need this)
}

// NewCatalog creates a new SQLite-based catalog.
func NewCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // Single writer
	db.SetMaxIdleConns(1)

	catalog := &SQLiteCatalog{
		db:     db,
		dbPath: dbPath,
	}

	if err := catalog.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to initialize schema: %w", err)
	}

	return catalog, nil
}

// initSchema creates all required tables and indexes.
func (c *SQLiteCatalog) initSchema() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, stmt := range AllSchemaSQL() {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// Register adds a snapshot record.
func (c *SQLiteCatalog) Register(ctx context.Context, rec *Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			snapshot_id, document_id, document_name, object_path,
			fingerprint, size_bytes, label, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SnapshotID, rec.DocumentID, rec.DocumentName, rec.ObjectPath,
		formatFingerprint(rec.Fingerprint), rec.SizeBytes, rec.Label, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("history: failed to register snapshot %s: %w", rec.SnapshotID, err)
	}
	return nil
}

const selectColumns = `snapshot_id, document_id, document_name, object_path,
	fingerprint, size_bytes, label, created_at`

// Get retrieves a single snapshot by ID.
func (c *SQLiteCatalog) Get(ctx context.Context, snapshotID string) (*Record, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM snapshots WHERE snapshot_id = ?", snapshotID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: failed to get snapshot %s: %w", snapshotID, err)
	}
	return rec, nil
}

// Latest returns the newest snapshot of a document name, or nil when the
// name has none.
func (c *SQLiteCatalog) Latest(ctx context.Context, name string) (*Record, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+` FROM snapshots WHERE document_name = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`, name)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: failed to get latest snapshot of %s: %w", name, err)
	}
	return rec, nil
}

// List returns the snapshots of a document name, newest first.
func (c *SQLiteCatalog) List(ctx context.Context, name string) ([]*Record, error) {
	query := "SELECT " + selectColumns + " FROM snapshots"
	var args []interface{}
	if name != "" {
		query += " WHERE document_name = ?"
		args = append(args, name)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("history: failed to scan snapshot: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: error iterating snapshots: %w", err)
	}
	return records, nil
}

// Delete removes snapshot records by ID.
func (c *SQLiteCatalog) Delete(ctx context.Context, snapshotIDs []string) error {
	if len(snapshotIDs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(snapshotIDs)), ",")
	args := make([]interface{}, len(snapshotIDs))
	for i, id := range snapshotIDs {
		args[i] = id
	}

	if _, err := c.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE snapshot_id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("history: failed to delete snapshots: %w", err)
	}
	return nil
}

// Close closes the catalog database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var fp string
	var createdAt int64
	if err := s.Scan(
		&rec.SnapshotID, &rec.DocumentID, &rec.DocumentName, &rec.ObjectPath,
		&fp, &rec.SizeBytes, &rec.Label, &createdAt,
	); err != nil {
		return nil, err
	}

	v, err := strconv.ParseUint(fp, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid fingerprint %q: %w", fp, err)
	}
	rec.Fingerprint = v
	rec.CreatedAt = time.Unix(0, createdAt)
	return &rec, nil
}

func formatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
