package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSONFileBackend persists the whole document as a single indented JSON
// file. This is the default backend.
//
// Layout:
//
//	data_dir/
//	  database.json   # {"products": [...], "users": [...], "orders": [...]}
type JSONFileBackend struct {
	path string
}

func NewJSONFileBackend(dir string) (*JSONFileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &JSONFileBackend{path: filepath.Join(dir, "database.json")}, nil
}

func (b *JSONFileBackend) Load() (Document, bool, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	// Malformed content is fatal, not silently replaced: the file is the
	// entire datastore.
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (b *JSONFileBackend) Save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(b.path, data, 0o644)
}

func (b *JSONFileBackend) Close() error { return nil }
