package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Document)}
}

// Put inserts or replaces a document under an explicit id.
func (m *MemoryStore) Put(collection, id string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			docs[i].Fields = copyFields(fields)
			return
		}
	}
	m.collections[collection] = append(docs, Document{ID: id, Fields: copyFields(fields)})
}

func (m *MemoryStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	return m.Query(ctx, collection, nil, 0)
}

func (m *MemoryStore) GetOne(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if doc.ID == id {
			return &Document{ID: doc.ID, Fields: copyFields(doc.Fields)}, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Query(ctx context.Context, collection string, filter *Filter, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []Document{}
	for _, doc := range m.collections[collection] {
		if !matches(doc.Fields, filter) {
			continue
		}
		result = append(result, Document{ID: doc.ID, Fields: copyFields(doc.Fields)})
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MemoryStore) CreateOne(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	m.Put(collection, id, fields)
	return id, nil
}

func (m *MemoryStore) SetOne(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			for k, v := range fields {
				docs[i].Fields[k] = normalizeValue(v)
			}
			return nil
		}
	}
	m.collections[collection] = append(docs, Document{ID: id, Fields: copyFields(fields)})
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
