package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cityportal/backend/internal/response"
	"github.com/cityportal/backend/internal/storage"
)

// multipartOverhead leaves room for form fields and part headers.
const multipartOverhead = 1 << 20

// FromRequest reads the multipart file part named field. The whole request body
// is capped at maxBytes plus a small overhead.
func FromRequest(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return File{}, ErrFileTooLarge
		}
		return File{}, ErrMissingFile
	}

	src, hdr, err := r.FormFile(field)
	if err != nil {
		return File{}, ErrMissingFile
	}
	defer src.Close()

	if hdr.Size > maxBytes {
		return File{}, ErrFileTooLarge
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, fmt.Errorf("read uploaded file: %w", err)
	}

	return File{
		Data:     data,
		Filename: hdr.Filename,
		MIMEType: hdr.Header.Get("Content-Type"),
	}, nil
}

// RespondError writes the HTTP response for an upload error.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrInvalidFileType),
		errors.Is(err, ErrTypeMismatch):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.PayloadTooLarge(w, err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrRecordNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrLimitExceeded):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrUploadFailed):
		response.BadGateway(w, ErrUploadFailed.Error())
	case errors.Is(err, storage.ErrUnavailable):
		response.BadGateway(w, storage.ErrUnavailable.Error())
	default:
		response.InternalError(w)
	}
}
