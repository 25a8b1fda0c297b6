package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	catalogapp "github.com/touchline/backend/internal/application/catalog"
)

// Ensure MemoryObjectStorage implements catalogapp.ObjectStorage
var _ catalogapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObject is an object held by MemoryObjectStorage
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory. It backs local
// development when no bucket is configured.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]MemoryObject
}

// NewMemoryObjectStorage creates an empty store whose public URLs start with baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "memory://videos"
	}
	return &MemoryObjectStorage{
		baseURL: baseURL,
		objects: make(map[string]MemoryObject),
	}
}

// Upload reads body fully and stores it under key
func (m *MemoryObjectStorage) Upload(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{Data: buf.Bytes(), ContentType: contentType}
	return nil
}

// Delete removes key; missing keys are ignored
func (m *MemoryObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists reports whether key is stored
func (m *MemoryObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// PresignUpload returns a fake upload URL; nothing listens on it
func (m *MemoryObjectStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(15 * time.Minute)
	return m.PublicURL(key) + "?upload=1&expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns the URL of key under the base URL
func (m *MemoryObjectStorage) PublicURL(key string) string {
	return publicURL(m.baseURL, key)
}

// KeyFromURL extracts the key from a URL produced by PublicURL
func (m *MemoryObjectStorage) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(m.baseURL, rawURL)
}
