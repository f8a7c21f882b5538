package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/response"
	"github.com/cityportal/backend/internal/user"
	"github.com/cityportal/backend/internal/validation"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc          *Service
	secureCookie bool
}

// NewHandler creates a new auth Handler. secureCookie sets the Secure flag on
// the session cookie and should be true in production.
func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie}
}

type registerRequest struct {
	Email    string  `json:"email"    validate:"required,email"           example:"jane@example.com"`
	Password string  `json:"password" validate:"required,min=6,max=128"   example:"s3cret!"`
	Name     *string `json:"name"     validate:"omitempty,max=100"        example:"Jane"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email" example:"jane@example.com"`
	Password string `json:"password" validate:"required"       example:"s3cret!"`
}

type userData struct {
	User *user.User `json:"user"`
}

type successData struct {
	Success bool `json:"success" example:"true"`
}

// Register godoc
//
//	@Summary		Register new user
//	@Description	Create an account with email and password. Does not start a session.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Registration details"
//	@Success		201		{object}	response.Envelope{data=userData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, user.ErrAlreadyExists) {
		response.Conflict(w, "email already exists")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, userData{User: u})
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Verify credentials and set the auth_token session cookie (HttpOnly, 7 days).
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	response.Envelope{data=userData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, err.Error())
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(SessionTTL.Seconds())))
	response.OK(w, userData{User: u})
}

// Logout godoc
//
//	@Summary		Log out
//	@Description	Clear the session cookie.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=successData}
//	@Router			/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	response.OK(w, successData{Success: true})
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
