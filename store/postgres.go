package store

import (
	"database/sql"
	"encoding/json"
)

// PostgresBackend persists the document as one JSONB blob in PostgreSQL,
// using the same single-row scheme as the SQLite backend. Useful when the
// shop runs somewhere without a writable filesystem.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(connString string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data JSONB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresBackend{db: db}, nil
}

func (b *PostgresBackend) Load() (Document, bool, error) {
	var raw []byte
	err := b.db.QueryRow("SELECT data FROM document WHERE id = 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (b *PostgresBackend) Save(doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		`INSERT INTO document (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
		raw,
	)
	return err
}

func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
