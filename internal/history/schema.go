// Package history keeps compressed snapshots of AppDNA documents in object
// storage and indexes them in a SQLite catalog (history.db).
package history

// CreateSnapshotsTableSQL creates the snapshots table. fingerprint is the
// murmur3 hash of the canonical document encoding, stored as 16 hex digits.
const CreateSnapshotsTableSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    snapshot_id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    document_name TEXT NOT NULL,
    object_path TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
)`

// CreateSnapshotsIndexesSQL creates indexes for per-document listing.
var CreateSnapshotsIndexesSQL = []string{
	// Newest-first listing per document name
	`CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(document_name, created_at)`,

	// Lookups by the session a snapshot was taken in
	`CREATE INDEX IF NOT EXISTS idx_snapshots_document ON snapshots(document_id)`,
}

// AllSchemaSQL returns all schema statements in execution order.
func AllSchemaSQL() []string {
	stmts := []string{CreateSnapshotsTableSQL}
	return append(stmts, CreateSnapshotsIndexesSQL...)
}
