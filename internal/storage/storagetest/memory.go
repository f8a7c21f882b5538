// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cityportal/backend/internal/storage"
)

const (
	Host   = "s3.test.local"
	Bucket = "test-bucket"
)

// Object is a stored object as seen by Memory.
type Object struct {
	Data        []byte
	ContentType string
	Visibility  storage.Visibility
}

// Memory keeps objects in a map and records every call.
// PutErr, DeleteErr and SignErr, when set, are returned instead of performing the operation.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Object

	PutErr    error
	DeleteErr error
	SignErr   error

	Puts    []string
	Deletes []string
}

var _ storage.Storage = (*Memory)(nil)

// New returns an empty Memory store.
func New() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (m *Memory) Put(_ context.Context, key string, data []byte, contentType string, vis storage.Visibility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Puts = append(m.Puts, key)
	if m.PutErr != nil {
		return m.PutErr
	}
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType, Visibility: vis}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return fmt.Sprintf("https://%s/%s/%s", Host, Bucket, key)
}

func (m *Memory) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if m.SignErr != nil {
		return "", m.SignErr
	}
	if ttl <= 0 {
		ttl = storage.DefaultSignedURLTTL
	}
	return fmt.Sprintf("https://%s/%s/%s?X-Amz-Expires=%d", Host, Bucket, key, int(ttl.Seconds())), nil
}

func (m *Memory) KeyFromURL(rawURL string) (string, bool) {
	return storage.ParseKey(rawURL, Host, Bucket)
}

// Seed stores an object directly, bypassing call recording.
func (m *Memory) Seed(key string, obj Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = obj
}

// Get returns the object at key.
func (m *Memory) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
