package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/storage"
	"github.com/cityportal/backend/internal/storage/storagetest"
	"github.com/cityportal/backend/internal/upload"
)

func newHandler(store *storagetest.Memory) *Handler {
	return NewHandler(upload.NewFiles(store, zerolog.Nop()), 1<<20)
}

func as(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestUploadPrivate(t *testing.T) {
	store := storagetest.New()
	h := newHandler(store)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "Contract.PDF")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/private", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.UploadPrivate(w, as(req, "u1"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env struct {
		Data fileData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Regexp(t, `^private/users/u1/[0-9a-f-]{36}\.pdf$`, env.Data.File.Key)
	assert.Equal(t, "application/pdf", env.Data.File.ContentType)
	assert.Contains(t, env.Data.File.URL, "X-Amz-Expires=3600")

	obj, ok := store.Get(env.Data.File.Key)
	require.True(t, ok)
	assert.Equal(t, storage.Private, obj.Visibility)
}

func TestUploadPrivate_RejectsExtension(t *testing.T) {
	h := newHandler(storagetest.New())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "run.sh")
	require.NoError(t, err)
	_, _ = part.Write([]byte("#!/bin/sh"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/private", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.UploadPrivate(w, as(req, "u1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignedURL(t *testing.T) {
	h := newHandler(storagetest.New())
	key := "private/users/u1/abc.pdf"

	tests := []struct {
		name    string
		user    string
		query   string
		want    int
		expires string
	}{
		{"default ttl", "u1", "?key=" + key, http.StatusOK, "X-Amz-Expires=3600"},
		{"custom ttl", "u1", "?key=" + key + "&ttl=90", http.StatusOK, "X-Amz-Expires=90"},
		{"max ttl", "u1", "?key=" + key + "&ttl=604800", http.StatusOK, "X-Amz-Expires=604800"},
		{"ttl too long", "u1", "?key=" + key + "&ttl=604801", http.StatusBadRequest, ""},
		{"ttl not a number", "u1", "?key=" + key + "&ttl=soon", http.StatusBadRequest, ""},
		{"ttl zero", "u1", "?key=" + key + "&ttl=0", http.StatusBadRequest, ""},
		{"missing key", "u1", "", http.StatusBadRequest, ""},
		{"other user", "u2", "?key=" + key, http.StatusForbidden, ""},
		{"public key", "u1", "?key=public/avatars/u1/a.png", http.StatusForbidden, ""},
		{"traversal", "u1", "?key=private/users/u1/../u2/a.pdf", http.StatusForbidden, ""},
		{"bare prefix", "u1", "?key=private/users/u1/", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.SignedURL(w, as(httptest.NewRequest(http.MethodGet, "/api/v1/files/signed-url"+tt.query, nil), tt.user))

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.expires != "" {
				assert.Contains(t, w.Body.String(), tt.expires)
			}
		})
	}
}

func TestSignedURL_Unauthenticated(t *testing.T) {
	h := newHandler(storagetest.New())
	w := httptest.NewRecorder()
	h.SignedURL(w, httptest.NewRequest(http.MethodGet, "/api/v1/files/signed-url?key=x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDelete(t *testing.T) {
	store := storagetest.New()
	store.Seed("private/users/u1/a.pdf", storagetest.Object{Data: []byte("x")})
	h := newHandler(store)

	w := httptest.NewRecorder()
	h.Delete(w, as(httptest.NewRequest(http.MethodDelete, "/api/v1/files?key=private/users/u1/a.pdf", nil), "u2"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 1, store.Len())

	w = httptest.NewRecorder()
	h.Delete(w, as(httptest.NewRequest(http.MethodDelete, "/api/v1/files?key=private/users/u1/a.pdf", nil), "u1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestDelete_StorageDown(t *testing.T) {
	store := storagetest.New()
	store.DeleteErr = storage.ErrUnavailable
	h := newHandler(store)

	w := httptest.NewRecorder()
	h.Delete(w, as(httptest.NewRequest(http.MethodDelete, "/api/v1/files?key=private/users/u1/a.pdf", nil), "u1"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSignedURL_StorageDown(t *testing.T) {
	store := storagetest.New()
	store.SignErr = fmt.Errorf("%w: presign: dial tcp: connection refused", storage.ErrUnavailable)
	h := newHandler(store)

	w := httptest.NewRecorder()
	h.SignedURL(w, as(httptest.NewRequest(http.MethodGet, "/api/v1/files/signed-url?key=private/users/u1/a.pdf", nil), "u1"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
