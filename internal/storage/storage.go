// Package storage defines the object store used for uploaded files.
// The MinIO implementation works with any S3-compatible provider (MinIO, Tebi, AWS S3)
// using path-style addressing.
package storage

import (
	"context"
	"errors"
	"time"
)

// Visibility controls whether a stored object is world-readable.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// DefaultSignedURLTTL is used when SignedURL is called with a non-positive TTL.
const DefaultSignedURLTTL = time.Hour

// ErrUnavailable is returned when the object store could not complete a request.
var ErrUnavailable = errors.New("object storage unavailable")

// Storage is the interface for storing and addressing objects.
type Storage interface {
	// Put stores data under key. Public objects get a public-read grant.
	Put(ctx context.Context, key string, data []byte, contentType string, vis Visibility) error
	// Delete removes the object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL builds the browser-accessible URL for key. No network call.
	PublicURL(key string) string
	// SignedURL returns a time-limited GET URL for key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// KeyFromURL recovers the key from a URL previously returned by PublicURL.
	// ok is false when the URL points at another host or bucket.
	KeyFromURL(rawURL string) (key string, ok bool)
}
