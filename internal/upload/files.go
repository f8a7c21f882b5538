package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityportal/backend/internal/storage"
)

// File is an uploaded file as received from the client. Filename and MIMEType
// are client-declared and untrusted.
type File struct {
	Data     []byte
	Filename string
	MIMEType string
}

// Object describes a stored object.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// Files stores validated files under generated keys.
type Files struct {
	store storage.Storage
	log   zerolog.Logger
}

// NewFiles creates a Files service backed by store.
func NewFiles(store storage.Storage, log zerolog.Logger) *Files {
	return &Files{store: store, log: log.With().Str("component", "files").Logger()}
}

// UploadPublic stores file with public-read access under prefix and returns its public URL.
func (f *Files) UploadPublic(ctx context.Context, file File, prefix string) (*Object, error) {
	ext, err := validate(file)
	if err != nil {
		return nil, err
	}
	return f.put(ctx, file.Data, ext, prefix, storage.Public)
}

// UploadPrivate stores file without a public grant and returns a signed URL
// valid for storage.DefaultSignedURLTTL.
func (f *Files) UploadPrivate(ctx context.Context, file File, prefix string) (*Object, error) {
	ext, err := validate(file)
	if err != nil {
		return nil, err
	}
	obj, err := f.put(ctx, file.Data, ext, prefix, storage.Private)
	if err != nil {
		return nil, err
	}
	signed, err := f.store.SignedURL(ctx, obj.Key, storage.DefaultSignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("sign url: %w", err)
	}
	obj.URL = signed
	return obj, nil
}

// PrivateURL returns a signed URL for an existing object.
func (f *Files) PrivateURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return f.store.SignedURL(ctx, key, ttl)
}

// Delete removes the object at key.
func (f *Files) Delete(ctx context.Context, key string) error {
	return f.store.Delete(ctx, key)
}

func (f *Files) put(ctx context.Context, data []byte, ext, prefix string, vis storage.Visibility) (*Object, error) {
	key := MakeKey(prefix, ext)
	ct := ContentType(ext)

	if err := f.store.Put(ctx, key, data, ct, vis); err != nil {
		f.log.Error().Err(err).Str("key", key).Msg("object upload failed")
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	obj := &Object{Key: key, ContentType: ct}
	if vis == storage.Public {
		obj.URL = f.store.PublicURL(key)
	}
	return obj, nil
}

// discard best-effort deletes the object behind rawURL if it belongs to this
// store. Failures are logged and swallowed.
func (f *Files) discard(ctx context.Context, rawURL string) {
	key, ok := f.store.KeyFromURL(rawURL)
	if !ok {
		f.log.Debug().Str("url", rawURL).Msg("skip cleanup of foreign url")
		return
	}
	if err := f.store.Delete(ctx, key); err != nil {
		f.log.Warn().Err(err).Str("key", key).Msg("failed to delete superseded object")
	}
}

func validate(file File) (string, error) {
	if len(file.Data) == 0 {
		return "", ErrMissingFile
	}
	return ValidateExtension(file.Filename)
}
