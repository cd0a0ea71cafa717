package storage

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"sync"
	"time"
)

// ErrObjectNotFound is returned when no document exists under a key
var ErrObjectNotFound = errors.New("document not found in storage")

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryDocumentStorage keeps documents in process memory.
// Used when object storage is disabled and in tests.
type MemoryDocumentStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	// BaseURL prefixes generated download URLs
	BaseURL string
}

// NewMemoryDocumentStorage creates an empty in-memory store
func NewMemoryDocumentStorage(baseURL string) *MemoryDocumentStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/storage"
	}
	return &MemoryDocumentStorage{
		objects: make(map[string]memoryObject),
		BaseURL: baseURL,
	}
}

// Put stores a copy of data under key
func (m *MemoryDocumentStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: bytes.Clone(data), contentType: contentType}
	return nil
}

// Get returns a copy of the document stored under key
func (m *MemoryDocumentStorage) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errKeyRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return bytes.Clone(obj.data), nil
}

// DownloadURL returns a pseudo-signed URL for key
func (m *MemoryDocumentStorage) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}

	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, ErrObjectNotFound
	}

	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// Delete removes key; deleting a missing key is not an error
func (m *MemoryDocumentStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Len returns the number of stored documents
func (m *MemoryDocumentStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
