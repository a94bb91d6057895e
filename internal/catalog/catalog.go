// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records extraction runs in a SQLite database so repeated
// runs over a document can be compared.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-image-extractor/pkg/types"
)

// Catalog wraps the SQLite database.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded extraction run.
type Run struct {
	ID        int64
	Source    string
	PageCount int
	StartedAt time.Time
	Extracted int
	Failed    int
}

// Open opens or creates the catalog database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &Catalog{db: db, now: time.Now}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			page_count INTEGER NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER NOT NULL,
			page INTEGER NOT NULL,
			page_index INTEGER NOT NULL,
			counter INTEGER NOT NULL,
			orig_width INTEGER,
			orig_height INTEGER,
			width INTEGER,
			height INTEGER,
			resized INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			page INTEGER NOT NULL,
			page_index INTEGER NOT NULL,
			obj_nr INTEGER,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_images_name ON images(name)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores result as a new run and returns its ID. Records and
// failures are written in one transaction.
func (c *Catalog) RecordRun(ctx context.Context, result types.Result) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, page_count, started_at) VALUES (?, ?, ?)`,
		result.Source, result.PageCount, c.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, r := range result.Records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO images (run_id, seq, name, path, size, page, page_index, counter,
				orig_width, orig_height, width, height, resized)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, r.Name, r.Path, r.Size, r.Page, r.Index, r.Counter,
			r.Original.Width, r.Original.Height, r.Final.Width, r.Final.Height, r.Resized)
		if err != nil {
			return 0, fmt.Errorf("inserting image %s: %w", r.Name, err)
		}
	}

	for _, f := range result.Failures {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, page, page_index, obj_nr, reason) VALUES (?, ?, ?, ?, ?)`,
			runID, f.Page, f.Index, f.ObjNr, f.Reason)
		if err != nil {
			return 0, fmt.Errorf("inserting failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Images returns the records stored for runID in processing order.
func (c *Catalog) Images(ctx context.Context, runID int64) ([]types.ExtractionRecord, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, path, size, page, page_index, counter,
			orig_width, orig_height, width, height, resized
		FROM images WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var records []types.ExtractionRecord
	for rows.Next() {
		var r types.ExtractionRecord
		if err := rows.Scan(&r.Name, &r.Path, &r.Size, &r.Page, &r.Index, &r.Counter,
			&r.Original.Width, &r.Original.Height, &r.Final.Width, &r.Final.Height, &r.Resized); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Runs lists recorded runs, newest first, with per-run counts.
func (c *Catalog) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.page_count, r.started_at,
			(SELECT COUNT(*) FROM images i WHERE i.run_id = r.id),
			(SELECT COUNT(*) FROM failures f WHERE f.run_id = r.id)
		FROM runs r ORDER BY r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.PageCount, &started, &r.Extracted, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
