// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists scan results and download outcomes in a local
// SQLite database, so repeated runs can be audited without re-reading logs.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "qebil.db"

// Store manages the ledger SQLite database.
type Store struct {
	db *sql.DB
}

// AccessionRecord is one verified accession found in a scanned document.
type AccessionRecord struct {
	Accession string
	Document  string
	FoundAt   time.Time
}

// DownloadRecord is the outcome of one verified download attempt.
type DownloadRecord struct {
	LocalPath  string
	RemotePath string
	Digest     string
	Status     string
	FetchedAt  time.Time
}

// Download statuses.
const (
	StatusFetched = "fetched"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Open opens or creates the ledger database under dir, creating the schema
// if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accessions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			accession TEXT NOT NULL,
			document TEXT NOT NULL,
			found_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accessions_accession ON accessions(accession)`,
		`CREATE TABLE IF NOT EXISTS downloads (
			local_path TEXT PRIMARY KEY,
			remote_path TEXT NOT NULL,
			digest TEXT,
			status TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordAccessions appends the verified accessions found in document.
func (s *Store) RecordAccessions(document string, accessions []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, acc := range accessions {
		if _, err := tx.Exec(
			`INSERT INTO accessions (accession, document, found_at) VALUES (?, ?, ?)`,
			acc, document, now,
		); err != nil {
			return fmt.Errorf("inserting accession %s: %w", acc, err)
		}
	}
	return tx.Commit()
}

// RecordDownload upserts the latest outcome for one destination path.
func (s *Store) RecordDownload(rec DownloadRecord) error {
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO downloads (local_path, remote_path, digest, status, fetched_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(local_path) DO UPDATE SET
		   remote_path = excluded.remote_path,
		   digest = excluded.digest,
		   status = excluded.status,
		   fetched_at = excluded.fetched_at`,
		rec.LocalPath, rec.RemotePath, rec.Digest, rec.Status,
		rec.FetchedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording download %s: %w", rec.LocalPath, err)
	}
	return nil
}

// Accessions returns all recorded accessions, oldest first.
func (s *Store) Accessions() ([]AccessionRecord, error) {
	rows, err := s.db.Query(`SELECT accession, document, found_at FROM accessions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying accessions: %w", err)
	}
	defer rows.Close()

	var out []AccessionRecord
	for rows.Next() {
		var rec AccessionRecord
		var foundAt string
		if err := rows.Scan(&rec.Accession, &rec.Document, &foundAt); err != nil {
			return nil, fmt.Errorf("scanning accession row: %w", err)
		}
		rec.FoundAt, _ = time.Parse(time.RFC3339, foundAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Downloads returns the latest outcome per destination path, ordered by path.
func (s *Store) Downloads() ([]DownloadRecord, error) {
	rows, err := s.db.Query(
		`SELECT local_path, remote_path, digest, status, fetched_at FROM downloads ORDER BY local_path`)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close()

	var out []DownloadRecord
	for rows.Next() {
		var rec DownloadRecord
		var digest sql.NullString
		var fetchedAt string
		if err := rows.Scan(&rec.LocalPath, &rec.RemotePath, &digest, &rec.Status, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning download row: %w", err)
		}
		rec.Digest = digest.String
		rec.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
