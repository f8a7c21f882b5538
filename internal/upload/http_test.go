package upload

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityportal/backend/internal/storage"
)

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("note", "hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFromRequest(t *testing.T) {
	req := multipartRequest(t, "file", "me.jpg", "image/jpeg", []byte("jpeg-bytes"))

	f, err := FromRequest(httptest.NewRecorder(), req, "file", 1024)
	require.NoError(t, err)
	assert.Equal(t, "me.jpg", f.Filename)
	assert.Equal(t, "image/jpeg", f.MIMEType)
	assert.Equal(t, []byte("jpeg-bytes"), f.Data)
}

func TestFromRequest_MissingPart(t *testing.T) {
	req := multipartRequest(t, "", "", "", nil)

	_, err := FromRequest(httptest.NewRecorder(), req, "file", 1024)
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestFromRequest_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	_, err := FromRequest(httptest.NewRecorder(), req, "file", 1024)
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestFromRequest_TooLarge(t *testing.T) {
	req := multipartRequest(t, "file", "big.png", "image/png", bytes.Repeat([]byte("x"), 4096))

	_, err := FromRequest(httptest.NewRecorder(), req, "file", 1024)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrMissingFile, http.StatusBadRequest},
		{ErrInvalidFileType, http.StatusBadRequest},
		{ErrTypeMismatch, http.StatusBadRequest},
		{ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{ErrNotOwner, http.StatusForbidden},
		{fmt.Errorf("listing x: %w", ErrRecordNotFound), http.StatusNotFound},
		{ErrLimitExceeded, http.StatusConflict},
		{fmt.Errorf("%w: %w", ErrUploadFailed, storage.ErrUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: presign: timeout", storage.ErrUnavailable), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		RespondError(w, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}
