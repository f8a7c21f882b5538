package listing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/response"
	"github.com/cityportal/backend/internal/upload"
	"github.com/cityportal/backend/internal/validation"
)

// Handler holds HTTP handlers for listing endpoints.
type Handler struct {
	svc            *Service
	maxUploadBytes int64
}

// NewHandler creates a new listing Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes}
}

type createRequest struct {
	Title string `json:"title" validate:"required,max=200"                          example:"Used bicycle"`
	Type  string `json:"type"  validate:"required,oneof=goods jobs autos real_estate" example:"goods"`
}

type uploadImageRequest struct {
	Type      string `json:"type"      validate:"required,oneof=goods jobs autos real_estate"`
	ListingID string `json:"listingId" validate:"required,uuid"`
}

type listingData struct {
	Listing *Listing `json:"listing"`
}

// Create godoc
//
//	@Summary		Create listing
//	@Tags			listings
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			request	body		createRequest	true	"Listing"
//	@Success		201		{object}	response.Envelope{data=listingData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/listings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	l, err := h.svc.Create(r.Context(), userID, req.Title, req.Type)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, listingData{Listing: l})
}

// Get godoc
//
//	@Summary	Get listing
//	@Tags		listings
//	@Produce	json
//	@Param		id	path		string	true	"Listing ID"
//	@Success	200	{object}	response.Envelope{data=listingData}
//	@Failure	404	{object}	response.Envelope
//	@Failure	500	{object}	response.Envelope
//	@Router		/listings/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.Var(id, "uuid"); err != nil {
		response.NotFound(w, "listing not found")
		return
	}

	l, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "listing not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, listingData{Listing: l})
}

// UploadImage godoc
//
//	@Summary		Upload listing image
//	@Description	Append an image to a listing owned by the current user. A listing holds at most 10 images.
//	@Tags			listings
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		CookieAuth
//	@Param			file		formData	file	true	"Image (jpg, jpeg, png, webp, gif)"
//	@Param			type		formData	string	true	"Listing type"	Enums(goods, jobs, autos, real_estate)
//	@Param			listingId	formData	string	true	"Listing ID"
//	@Success		200			{object}	response.Envelope{data=listingData}
//	@Failure		400			{object}	response.Envelope
//	@Failure		401			{object}	response.Envelope
//	@Failure		403			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		409			{object}	response.Envelope
//	@Failure		413			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope
//	@Router			/listings/upload-image [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
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

	req := uploadImageRequest{
		Type:      r.FormValue("type"),
		ListingID: r.FormValue("listingId"),
	}
	if err := validation.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	l, err := h.svc.UploadImage(r.Context(), userID, req.ListingID, req.Type, file)
	if err != nil {
		upload.RespondError(w, err)
		return
	}

	response.OK(w, listingData{Listing: l})
}
