package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Manifest tracks capture runs and their pages in a sqlite database kept
// next to the dataset, so interrupted runs can be inspected and resumed.
type Manifest struct {
	db    *sql.DB
	runID string
}

const manifestSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS pages (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	page_id      TEXT NOT NULL,
	url          TEXT NOT NULL,
	sample_count INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL,
	recorded_at  TEXT NOT NULL,
	PRIMARY KEY (run_id, page_id)
);
`

var manifestPragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 10000",
}

// OpenManifest opens or creates the manifest database at path and starts a
// new run.
func OpenManifest(path string) (*Manifest, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open manifest: %w", err)
	}
	for _, pragma := range manifestPragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("dataset: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(manifestSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("dataset: manifest schema: %w", err)
	}
	runID, err := uuid.NewV7()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("dataset: run id: %w", err)
	}
	m := &Manifest{db: db, runID: runID.String()}
	_, err = db.Exec(`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		m.runID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("dataset: start run: %w", err)
	}
	return m, nil
}

// RunID returns the identifier of the run this manifest records into.
func (m *Manifest) RunID() string { return m.runID }

// Page statuses recorded by RecordPage.
const (
	PageOK     = "ok"
	PageEmpty  = "empty"
	PageFailed = "failed"
)

// RecordPage upserts the outcome of one page capture.
func (m *Manifest) RecordPage(ctx context.Context, pageID, url string, sampleCount int, status string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO pages (run_id, page_id, url, sample_count, status, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, page_id) DO UPDATE SET
			url = excluded.url,
			sample_count = excluded.sample_count,
			status = excluded.status,
			recorded_at = excluded.recorded_at`,
		m.runID, pageID, url, sampleCount, status,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("dataset: record page %s: %w", pageID, err)
	}
	return nil
}

// RunSummary is the per-status page count of one run.
type RunSummary struct {
	RunID string
	Pages map[string]int
}

// Summary counts pages by status for the current run.
func (m *Manifest) Summary(ctx context.Context) (*RunSummary, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM pages WHERE run_id = ? GROUP BY status`, m.runID)
	if err != nil {
		return nil, fmt.Errorf("dataset: summary: %w", err)
	}
	defer rows.Close()
	s := &RunSummary{RunID: m.runID, Pages: map[string]int{}}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.Pages[status] = n
	}
	return s, rows.Err()
}

// Close closes the underlying database.
func (m *Manifest) Close() error { return m.db.Close() }
