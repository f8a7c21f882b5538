// Package files exposes private per-user file storage over HTTP.
package files

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/response"
	"github.com/cityportal/backend/internal/storage"
	"github.com/cityportal/backend/internal/upload"
)

// MaxSignedURLTTL is the longest validity accepted for a signed URL.
const MaxSignedURLTTL = 7 * 24 * time.Hour

// Handler holds HTTP handlers for private file endpoints.
type Handler struct {
	files          *upload.Files
	maxUploadBytes int64
}

// NewHandler creates a new files Handler.
func NewHandler(files *upload.Files, maxUploadBytes int64) *Handler {
	return &Handler{files: files, maxUploadBytes: maxUploadBytes}
}

type fileData struct {
	File *upload.Object `json:"file"`
}

type signedURLData struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn" example:"3600"`
}

func userPrefix(userID string) string {
	return "private/users/" + userID + "/"
}

// UploadPrivate godoc
//
//	@Summary		Upload private file
//	@Description	Store a file readable only through signed URLs.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		CookieAuth
//	@Param			file	formData	file	true	"File"
//	@Success		201		{object}	response.Envelope{data=fileData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		413		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/files/private [post]
func (h *Handler) UploadPrivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	file, err := upload.FromRequest(w, r, "file", h.maxUploadBytes)
	if err != nil {
		upload.RespondError(w, err)
		return
	}

	obj, err := h.files.UploadPrivate(r.Context(), file, userPrefix(userID))
	if err != nil {
		upload.RespondError(w, err)
		return
	}

	response.Created(w, fileData{File: obj})
}

// SignedURL godoc
//
//	@Summary		Get signed URL
//	@Description	Issue a time-limited URL for one of the caller's private files.
//	@Tags			files
//	@Produce		json
//	@Security		CookieAuth
//	@Param			key	query		string	true	"Object key"
//	@Param			ttl	query		int		false	"Validity in seconds (default 3600, max 604800)"
//	@Success		200	{object}	response.Envelope{data=signedURLData}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/files/signed-url [get]
func (h *Handler) SignedURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "key is required")
		return
	}
	if !ownsKey(userID, key) {
		response.Forbidden(w, "access to this file is not allowed")
		return
	}

	ttl := storage.DefaultSignedURLTTL
	if raw := r.URL.Query().Get("ttl"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 || time.Duration(secs)*time.Second > MaxSignedURLTTL {
			response.BadRequest(w, "ttl must be between 1 and 604800 seconds")
			return
		}
		ttl = time.Duration(secs) * time.Second
	}

	url, err := h.files.PrivateURL(r.Context(), key, ttl)
	if err != nil {
		upload.RespondError(w, err)
		return
	}

	response.OK(w, signedURLData{URL: url, ExpiresIn: int(ttl.Seconds())})
}

// Delete godoc
//
//	@Summary	Delete private file
//	@Tags		files
//	@Security	CookieAuth
//	@Param		key	query	string	true	"Object key"
//	@Success	204
//	@Failure	400	{object}	response.Envelope
//	@Failure	401	{object}	response.Envelope
//	@Failure	403	{object}	response.Envelope
//	@Failure	502	{object}	response.Envelope
//	@Router		/files [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "key is required")
		return
	}
	if !ownsKey(userID, key) {
		response.Forbidden(w, "access to this file is not allowed")
		return
	}

	if err := h.files.Delete(r.Context(), key); err != nil {
		upload.RespondError(w, err)
		return
	}

	response.NoContent(w)
}

// ownsKey reports whether key lies directly in the user's private namespace.
func ownsKey(userID, key string) bool {
	prefix := userPrefix(userID)
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return false
	}
	return !strings.Contains(key, "..")
}
