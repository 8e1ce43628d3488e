// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Document and chunk persistence
//   - VectorStore: Embedding persistence and similarity search
//   - ExclusionStore: Removal tombstone persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Similarity Search
//
// Vectors live in their own table rather than alongside chunks, so entries
// outlive the document record until compaction. Search scans every vector
// belonging to the requesting owner and ranks by cosine similarity. Note
// libraries stay small enough that a flat scan beats the operational cost
// of a dedicated index.
//
// # Data Location
//
// By default, the database is stored at ~/.tutora/data/tutora.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
