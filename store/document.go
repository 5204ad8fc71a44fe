package store

import (
	"math"
	"reflect"
	"strconv"
	"sync"
)

// DocumentStore implements the collection-level operations on top of any
// Backend. Pass the store by handle to every caller; its lifecycle is owned
// by the process entry point.
//
// A mutex serializes individual operations on one store instance, matching
// what a single-file datastore can promise. Spans that cover several
// operations (read a collection, mutate it in memory, write it back) are NOT
// serialized: two concurrent read-modify-write callers can lose one write.
// Known limitation, see DESIGN.md.
type DocumentStore struct {
	mu      sync.Mutex
	backend Backend
}

// NewDocumentStore wraps a backend. Most callers should use New instead.
func NewDocumentStore(b Backend) *DocumentStore {
	return &DocumentStore{backend: b}
}

// Close releases the underlying backend.
func (s *DocumentStore) Close() error {
	return s.backend.Close()
}

// Read returns the full document. When nothing has been persisted yet it
// initializes a document with the three known collections empty, persists
// it, and returns it.
func (s *DocumentStore) Read() (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Write overwrites the persisted document. Callers must assume no partial
// write succeeded on failure; no recovery is attempted.
func (s *DocumentStore) Write(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

// GetCollection returns the named collection, or an empty slice when absent.
// Unknown collection names are tolerated.
func (s *DocumentStore) GetCollection(name string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCollection(name)
}

// ReplaceCollection replaces the named collection wholesale and persists the
// document.
func (s *DocumentStore) ReplaceCollection(name string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceCollection(name, records)
}

// Insert appends a record to the named collection, assigning a sequential
// string id when the record has none, and returns the stored record.
func (s *DocumentStore) Insert(name string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.getCollection(name)
	if err != nil {
		return nil, err
	}
	if _, ok := rec["id"]; !ok {
		rec["id"] = nextID(records)
	}
	records = append(records, rec)
	if err := s.replaceCollection(name, records); err != nil {
		return nil, err
	}
	return rec, nil
}

// FindWhere returns the records whose fields all equal the query values,
// preserving collection order. Exact match only.
func (s *DocumentStore) FindWhere(name string, query Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.getCollection(name)
	if err != nil {
		return nil, err
	}
	matched := []Record{}
	for _, r := range records {
		if matches(r, query) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// FindOneWhere returns the first record matching the query, or nil when none
// does.
func (s *DocumentStore) FindOneWhere(name string, query Record) (Record, error) {
	results, err := s.FindWhere(name, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// UpdateByID merges the given fields over the record with the given id and
// persists the result. Fields not mentioned are preserved. Returns the
// merged record, or ErrNotFound when the id is absent.
func (s *DocumentStore) UpdateByID(name, id string, updates Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.getCollection(name)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, r := range records {
		if r["id"] == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	merged := Record{}
	for k, v := range records[idx] {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	records[idx] = merged
	if err := s.replaceCollection(name, records); err != nil {
		return nil, err
	}
	return merged, nil
}

// DeleteByID removes the record with the given id and persists the result.
// Returns ErrNotFound when nothing was removed.
func (s *DocumentStore) DeleteByID(name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.getCollection(name)
	if err != nil {
		return err
	}
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r["id"] != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return ErrNotFound
	}
	return s.replaceCollection(name, kept)
}

// ---------- unexported, caller holds s.mu ----------

func (s *DocumentStore) load() (Document, error) {
	doc, ok, err := s.backend.Load()
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	if !ok {
		doc = Document{Products: {}, Users: {}, Orders: {}}
		if err := s.save(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *DocumentStore) save(doc Document) error {
	if err := s.backend.Save(doc); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *DocumentStore) getCollection(name string) ([]Record, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	records := doc[name]
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *DocumentStore) replaceCollection(name string, records []Record) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[name] = records
	return s.save(doc)
}

// nextID computes (max numeric id in the collection) + 1 as a decimal
// string. Ids that are missing or do not parse count as 0.
func nextID(records []Record) string {
	if len(records) == 0 {
		return "1"
	}
	max := math.MinInt
	for _, r := range records {
		n := 0
		switch id := r["id"].(type) {
		case string:
			if v, err := strconv.Atoi(id); err == nil {
				n = v
			}
		case float64:
			n = int(id)
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// matches reports whether every query field equals the record's field.
func matches(r, query Record) bool {
	for k, want := range query {
		if !reflect.DeepEqual(r[k], want) {
			return false
		}
	}
	return true
}
