package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Config holds the vector index location.
type Config struct {
	// Path is the database file. Parent directories are created as
	// needed. Required.
	Path string

	// Collection scopes all operations to one named chunk collection
	// within the database. Empty means domain.CollectionName.
	Collection string
}

// VectorIndex is a SQLite-backed chunk collection. Nearest-neighbour
// queries run inside the database through the vec_cosine function, so
// vectors never leave SQLite for scoring.
type VectorIndex struct {
	db         *sql.DB
	path       string
	collection string
}

var _ driven.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex opens (creating if necessary) the collection database
// at cfg.Path and runs pending schema migrations.
func NewVectorIndex(cfg Config) (*VectorIndex, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database path is empty", domain.ErrInvalidInput)
	}
	collection := cfg.Collection
	if collection == "" {
		collection = domain.CollectionName
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	registerVectorFunctions()

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &VectorIndex{
		db:         db,
		path:       cfg.Path,
		collection: collection,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Close closes the database connection.
func (x *VectorIndex) Close() error {
	return x.db.Close()
}

// Path returns the database file path.
func (x *VectorIndex) Path() string {
	return x.path
}

// Collection returns the collection name this index operates on.
func (x *VectorIndex) Collection() string {
	return x.collection
}

// migrate runs all pending migrations.
func (x *VectorIndex) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := x.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := x.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or overwrites chunks by ID in a single transaction.
func (x *VectorIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("%w: chunk has empty ID", domain.ErrInvalidInput)
		}
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, chunk.ID)
		}
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, source, chunk_index, total_chunks, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			source = excluded.source,
			chunk_index = excluded.chunk_index,
			total_chunks = excluded.total_chunks,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, x.collection,
			chunk.Metadata.Source, chunk.Metadata.ChunkIndex, chunk.Metadata.TotalChunks,
			chunk.Text, embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns the k nearest chunks to the query vector, closest
// first. Distance is cosine distance, computed inside SQLite.
func (x *VectorIndex) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT id, content, source, chunk_index, total_chunks,
		       1.0 - vec_cosine(embedding, ?) AS distance
		FROM chunks
		WHERE collection = ?
		ORDER BY distance
		LIMIT ?
	`, float32SliceToBytes(vector), x.collection, k)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	hits := make([]driven.VectorHit, 0, k)
	for rows.Next() {
		var hit driven.VectorHit
		if err := rows.Scan(&hit.ChunkID, &hit.Text,
			&hit.Metadata.Source, &hit.Metadata.ChunkIndex, &hit.Metadata.TotalChunks,
			&hit.Distance); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}

	return hits, nil
}

// Sources returns the distinct source names across all stored chunks,
// lexicographically sorted.
func (x *VectorIndex) Sources(ctx context.Context) ([]string, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT DISTINCT source FROM chunks
		WHERE collection = ?
		ORDER BY source
	`, x.collection)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// CountForSource returns how many stored chunks belong to the named source.
func (x *VectorIndex) CountForSource(ctx context.Context, source string) (int, error) {
	var count int
	err := x.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks WHERE collection = ? AND source = ?
	`, x.collection, source).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks for source: %w", err)
	}
	return count, nil
}

// Exists reports whether any chunk belongs to the named source.
func (x *VectorIndex) Exists(ctx context.Context, source string) (bool, error) {
	count, err := x.CountForSource(ctx, source)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TotalCount returns the number of stored chunks.
func (x *VectorIndex) TotalCount(ctx context.Context) (int, error) {
	var count int
	err := x.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks WHERE collection = ?
	`, x.collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Clear destroys all stored chunks in the collection.
func (x *VectorIndex) Clear(ctx context.Context) error {
	_, err := x.db.ExecContext(ctx, `
		DELETE FROM chunks WHERE collection = ?
	`, x.collection)
	if err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}
