package storage

import (
	"context"
	"sync"
)

type object struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in process memory. It backs local runs without a bucket and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]object), baseURL: baseURL}
}

func (m *MemoryStore) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyObject
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.objects[bucket+"/"+key] = object{data: cp, contentType: contentType}
	m.mu.Unlock()
	return key, nil
}

func (m *MemoryStore) PublicURL(bucket, path string) string {
	return publicURL(m.baseURL, bucket, path)
}

// Get returns a stored object and its content type.
func (m *MemoryStore) Get(bucket, key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return obj.data, obj.contentType, nil
}

// Len is the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
