package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
)

// SqliteBackend persists the document as one JSON blob in a SQLite database.
// The single-row table keeps the whole-document read/rewrite semantics of
// the JSON file backend.
//
// Table:
//
//	document(id INTEGER PRIMARY KEY CHECK (id = 1), data TEXT NOT NULL)
type SqliteBackend struct {
	db *sql.DB
}

func NewSqliteBackend(dbPath string) (*SqliteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteBackend{db: db}, nil
}

func (b *SqliteBackend) Load() (Document, bool, error) {
	var raw string
	err := b.db.QueryRow("SELECT data FROM document WHERE id = 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (b *SqliteBackend) Save(doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		`INSERT INTO document (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(raw),
	)
	return err
}

func (b *SqliteBackend) Close() error {
	return b.db.Close()
}
