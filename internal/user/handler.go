package user

import (
	"net/http"

	"github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/response"
	"github.com/cityportal/backend/internal/upload"
)

// Handler holds HTTP handlers for user-related endpoints.
type Handler struct {
	svc            *Service
	maxUploadBytes int64
}

// NewHandler creates a new user Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes}
}

type userData struct {
	User *User `json:"user"`
}

// GetMe godoc
//
//	@Summary		Get current user
//	@Description	Returns the profile of the currently authenticated user.
//	@Tags			auth
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	response.Envelope{data=User}
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/auth/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	u, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, u)
}

// UploadAvatar godoc
//
//	@Summary		Upload avatar
//	@Description	Replace the current user's avatar. The previous avatar object is deleted on a best-effort basis.
//	@Tags			auth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		CookieAuth
//	@Param			file	formData	file	true	"Image (jpg, jpeg, png, webp, gif)"
//	@Success		200		{object}	response.Envelope{data=userData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		413		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/auth/upload/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
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

	u, err := h.svc.UploadAvatar(r.Context(), userID, file)
	if err != nil {
		upload.RespondError(w, err)
		return
	}

	response.OK(w, userData{User: u})
}
