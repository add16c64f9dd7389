// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inventory persists accepted assets and run summaries in a SQLite
// database, so the collection can be inspected without re-walking the
// filesystem or re-running a harvest.
package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// Store manages the inventory SQLite database.
type Store struct {
	db *sql.DB
}

// RunSummary holds the counters of one pipeline run.
type RunSummary struct {
	Started    time.Time
	Finished   time.Time
	Harvested  int
	Reconciled int
	GapFilled  int
	Downloaded int
	Skipped    int
	Failed     int
	Missing    int
}

// NewStore opens or creates the inventory database and its schema.
func NewStore(cfg types.InventoryConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating inventory directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS assets (
			subject_code TEXT NOT NULL,
			year INTEGER NOT NULL,
			session TEXT NOT NULL,
			asset_type TEXT NOT NULL,
			subject_label TEXT,
			source_title TEXT,
			source_page TEXT,
			pdf_url TEXT,
			local_path TEXT,
			first_seen TEXT NOT NULL,
			last_run TEXT NOT NULL,
			PRIMARY KEY (subject_code, year, session, asset_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_subject ON assets(subject_code)`,
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			harvested INTEGER,
			reconciled INTEGER,
			gap_filled INTEGER,
			downloaded INTEGER,
			skipped INTEGER,
			failed INTEGER,
			missing INTEGER
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores the run summary and upserts every accepted asset. An
// asset keeps its first_seen timestamp across runs.
func (s *Store) RecordRun(ctx context.Context, summary RunSummary, accepted []types.Asset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := summary.Finished.UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (started, finished, harvested, reconciled, gap_filled,
			downloaded, skipped, failed, missing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Started.UTC().Format(time.RFC3339), now,
		summary.Harvested, summary.Reconciled, summary.GapFilled,
		summary.Downloaded, summary.Skipped, summary.Failed, summary.Missing)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assets (subject_code, year, session, asset_type,
			subject_label, source_title, source_page, pdf_url, local_path,
			first_seen, last_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (subject_code, year, session, asset_type) DO UPDATE SET
			subject_label = excluded.subject_label,
			source_title = excluded.source_title,
			source_page = excluded.source_page,
			pdf_url = excluded.pdf_url,
			local_path = excluded.local_path,
			last_run = excluded.last_run`)
	if err != nil {
		return fmt.Errorf("preparing asset upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range accepted {
		_, err := stmt.ExecContext(ctx,
			a.SubjectCode, a.YearInt(), string(a.Session), string(a.AssetType),
			a.SubjectLabel, a.SourceTitle, a.SourcePage, a.PDFURL, a.LocalPath,
			now, now)
		if err != nil {
			return fmt.Errorf("upserting asset %s: %w", filepath.Base(a.LocalPath), err)
		}
	}

	return tx.Commit()
}

// ListAssets returns stored assets, optionally filtered by subject code, in
// the stable inventory order.
func (s *Store) ListAssets(ctx context.Context, subjectCode string) ([]types.Asset, error) {
	query := `SELECT subject_code, year, session, asset_type, subject_label,
		source_title, source_page, pdf_url, local_path
		FROM assets`
	var args []any
	if subjectCode != "" {
		query += ` WHERE subject_code = ?`
		args = append(args, subjectCode)
	}
	query += ` ORDER BY subject_code, year, session, asset_type`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []types.Asset
	for rows.Next() {
		var a types.Asset
		var year int
		var session, assetType string
		if err := rows.Scan(&a.SubjectCode, &year, &session, &assetType,
			&a.SubjectLabel, &a.SourceTitle, &a.SourcePage, &a.PDFURL,
			&a.LocalPath); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		a.Year = fmt.Sprintf("%d", year)
		a.Session = types.Session(session)
		a.AssetType = types.AssetType(assetType)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// SubjectCount pairs a subject code with its stored asset count.
type SubjectCount struct {
	SubjectCode string
	Assets      int
}

// Summary returns per-subject asset counts in subject order.
func (s *Store) Summary(ctx context.Context) ([]SubjectCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject_code, COUNT(*) FROM assets
		GROUP BY subject_code ORDER BY subject_code`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	var counts []SubjectCount
	for rows.Next() {
		var c SubjectCount
		if err := rows.Scan(&c.SubjectCode, &c.Assets); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// LastRuns returns up to n run summaries, newest first.
func (s *Store) LastRuns(ctx context.Context, n int) ([]RunSummary, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT started, finished, harvested, reconciled, gap_filled,
			downloaded, skipped, failed, missing
		FROM runs ORDER BY rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		if err := rows.Scan(&started, &finished, &r.Harvested, &r.Reconciled,
			&r.GapFilled, &r.Downloaded, &r.Skipped, &r.Failed, &r.Missing); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339, started)
		r.Finished, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
