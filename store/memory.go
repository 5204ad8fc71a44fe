package store

import "encoding/json"

// MemoryBackend keeps the document in memory. Data is lost on restart.
// Intended for tests.
type MemoryBackend struct {
	doc Document
	ok  bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load() (Document, bool, error) {
	if !b.ok {
		return nil, false, nil
	}
	return deepCopy(b.doc), true, nil
}

func (b *MemoryBackend) Save(doc Document) error {
	b.doc = deepCopy(doc)
	b.ok = true
	return nil
}

func (b *MemoryBackend) Close() error { return nil }

// deepCopy round-trips through JSON so callers never alias stored state and
// values carry the same types they would after a real file round-trip.
func deepCopy(src Document) Document {
	raw, _ := json.Marshal(src)
	var dst Document
	_ = json.Unmarshal(raw, &dst)
	return dst
}
