// ABOUTME: SQLite-backed knowledge-base document store using modernc.org/sqlite
// ABOUTME: Used locally when no remote service is configured and by the fake agent

package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// maxDocumentBytes bounds a single uploaded document.
const maxDocumentBytes = 32 << 20

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path. Parent directories
// are created if needed. Use ":memory:" for a throwaway store.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "knowledge_store")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db, logger: logger, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("knowledge store initialized", "path", path)
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			rag_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			status TEXT NOT NULL,
			content BLOB NOT NULL,
			size INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (rag_id, file_name)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_rag_created
			ON documents(rag_id, created_at);
	`)
	return err
}

// List returns the documents of ragID, oldest upload first.
func (s *SQLiteStore) List(ctx context.Context, ragID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_name, status FROM documents
		WHERE rag_id = ?
		ORDER BY created_at, file_name
	`, ragID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.FileName, &d.Status); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Upload stores r under fileName, replacing any document with that name.
func (s *SQLiteStore) Upload(ctx context.Context, ragID, fileName string, r io.Reader) error {
	if err := CheckFileType(fileName); err != nil {
		return err
	}
	name := filepath.Base(strings.TrimSpace(fileName))

	content, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if len(content) > maxDocumentBytes {
		return &StoreError{Message: fmt.Sprintf("%s exceeds the %d MB limit", name, maxDocumentBytes>>20)}
	}
	if len(content) == 0 {
		return &StoreError{Message: name + " is empty"}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (rag_id, file_name, status, content, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (rag_id, file_name) DO UPDATE SET
			status = excluded.status,
			content = excluded.content,
			size = excluded.size,
			created_at = excluded.created_at
	`, ragID, name, StatusReady, content, len(content), s.now().UTC())
	if err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}

	s.logger.Info("stored document", "rag_id", ragID, "file_name", name, "size", len(content))
	return nil
}

// Delete removes fileNames from ragID. Unknown names are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, ragID string, fileNames []string) error {
	if len(fileNames) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range fileNames {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM documents WHERE rag_id = ? AND file_name = ?", ragID, name); err != nil {
			return fmt.Errorf("deleting %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
