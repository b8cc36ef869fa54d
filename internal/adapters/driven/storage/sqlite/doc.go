// Package sqlite provides the SQLite-backed implementation of the
// vector index driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Similarity
// scoring runs inside the database through a registered vec_cosine
// scalar function, so nearest-neighbour queries are a single ORDER BY
// over the chunk table rather than a bulk read into process memory.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Chunks are scoped to a named collection;
// several collections can share one database file.
//
// # Vectors
//
// Embeddings are stored as little-endian float32 BLOBs. vec_cosine
// decodes two such BLOBs and returns their cosine similarity; queries
// order by 1 - vec_cosine, the cosine distance.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
