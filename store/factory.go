package store

import (
	"fmt"
	"path/filepath"
)

// New creates a DocumentStore with the named backend.
//
// Supported backends:
//
//	"json"     - single database.json under dataDir (default)
//	"sqlite"   - SQLite database at dataDir/shop.db
//	"postgres" - PostgreSQL at dsn
//	"memory"   - in-memory (ephemeral, for testing)
func New(backend, dataDir, dsn string) (*DocumentStore, error) {
	switch backend {
	case "json", "":
		b, err := NewJSONFileBackend(dataDir)
		if err != nil {
			return nil, err
		}
		return NewDocumentStore(b), nil
	case "sqlite":
		b, err := NewSqliteBackend(filepath.Join(dataDir, "shop.db"))
		if err != nil {
			return nil, err
		}
		return NewDocumentStore(b), nil
	case "postgres":
		b, err := NewPostgresBackend(dsn)
		if err != nil {
			return nil, err
		}
		return NewDocumentStore(b), nil
	case "memory":
		return NewDocumentStore(NewMemoryBackend()), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, sqlite, postgres, memory)", backend)
	}
}
