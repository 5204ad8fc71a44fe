// Package store implements the flat-file document store backing the shop.
//
// All persisted state lives in a single Document: a mapping from collection
// name to an ordered list of records. Every operation round-trips through a
// full document load and, for mutations, a full document save. That trades
// performance for implementation simplicity, which is acceptable at the
// scale of a demo store, but it establishes no ordering or isolation
// guarantees across store instances or across multi-operation callers.
package store

import "errors"

// Known collection names. A fresh document is initialized with all three.
const (
	Products = "products"
	Users    = "users"
	Orders   = "orders"
)

// Record is a single schema-less document within a collection. Records carry
// a string "id" field whose value is a decimal integer, assigned by the
// store at insert time when absent.
type Record = map[string]any

// Document is the entire persisted state: collection name -> ordered records.
type Document map[string][]Record

// ErrNotFound is returned when an update or delete targets an id that does
// not exist in the collection.
var ErrNotFound = errors.New("not found")

// StorageError wraps an I/O or decode failure from a backend. It is fatal to
// the operation that raised it and is surfaced to the caller untranslated.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// Backend persists a whole Document. Implementations only load and save the
// serialized document; all collection semantics live in DocumentStore.
type Backend interface {
	// Load returns the persisted document. ok is false when nothing has
	// been persisted yet.
	Load() (doc Document, ok bool, err error)

	// Save overwrites the persisted document.
	Save(doc Document) error

	// Close releases backend resources.
	Close() error
}
