// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists canonical paper records on the collaborator side
// of the engine boundary. The engine itself owns no storage; the store holds
// the deduplicated corpus between runs and hydrates the engine at startup.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-search/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "corpus.db"
)

// Store manages the corpus SQLite database.
type Store struct {
	db        *sql.DB
	corpusDir string
}

// NewStore opens or creates the corpus database at
// corpusDir/index/corpus.db, creating the schema if needed.
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CorpusDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, corpusDir: cfg.CorpusDir}
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			date TEXT,
			venue TEXT,
			citation_count INTEGER,
			reference_count INTEGER,
			fields_of_study TEXT,
			pdf_url TEXT,
			doi TEXT,
			source TEXT,
			open_access INTEGER,
			methodology TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SavePapers upserts a batch of papers in one transaction and returns the
// number written.
func (s *Store) SavePapers(ctx context.Context, papers []types.Paper) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, authors, abstract, date, venue,
			citation_count, reference_count, fields_of_study,
			pdf_url, doi, source, open_access, methodology)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors,
			abstract=excluded.abstract, date=excluded.date,
			venue=excluded.venue, citation_count=excluded.citation_count,
			reference_count=excluded.reference_count,
			fields_of_study=excluded.fields_of_study,
			pdf_url=excluded.pdf_url, doi=excluded.doi,
			source=excluded.source, open_access=excluded.open_access,
			methodology=excluded.methodology`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		fieldsJSON, _ := json.Marshal(p.FieldsOfStudy)
		dateStr := ""
		if !p.Date.IsZero() {
			dateStr = p.Date.Format(time.RFC3339)
		}
		openAccess := 0
		if p.OpenAccess {
			openAccess = 1
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Title, string(authorsJSON), p.Abstract, dateStr, p.Venue,
			p.CitationCount, p.ReferenceCount, string(fieldsJSON),
			p.PDFURL, p.DOI, p.Source, openAccess, p.Methodology,
		); err != nil {
			return written, fmt.Errorf("upserting paper %s: %w", p.ID, err)
		}
		written++
	}

	return written, tx.Commit()
}

// LoadAll reads every paper from the store, ordered by identifier.
func (s *Store) LoadAll(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, abstract, date, venue,
			citation_count, reference_count, fields_of_study,
			pdf_url, doi, source, open_access, methodology
		 FROM papers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var (
			p           types.Paper
			authorsJSON sql.NullString
			fieldsJSON  sql.NullString
			dateStr     sql.NullString
			openAccess  int
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &authorsJSON, &p.Abstract, &dateStr, &p.Venue,
			&p.CitationCount, &p.ReferenceCount, &fieldsJSON,
			&p.PDFURL, &p.DOI, &p.Source, &openAccess, &p.Methodology,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
		}
		if fieldsJSON.Valid {
			json.Unmarshal([]byte(fieldsJSON.String), &p.FieldsOfStudy)
		}
		if dateStr.Valid && dateStr.String != "" {
			if t, parseErr := time.Parse(time.RFC3339, dateStr.String); parseErr == nil {
				p.Date = t
			}
		}
		p.OpenAccess = openAccess != 0

		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Count returns the number of stored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}
