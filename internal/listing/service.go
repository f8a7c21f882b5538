package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cityportal/backend/internal/upload"
)

type store interface {
	Create(ctx context.Context, userID, title, listingType string) (*Listing, error)
	GetByID(ctx context.Context, id string) (*Listing, error)
	SetImages(ctx context.Context, id string, images []string) (*Listing, error)
}

// Service contains listing business logic.
type Service struct {
	repo   store
	images *upload.Attacher[*Listing]
}

// NewService creates a listing Service. Images are appended up to MaxImages and
// only the listing owner may add them.
func NewService(repo store, files *upload.Files, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		images: upload.NewAttacher[*Listing](files, imageSlot{repo: repo}, upload.Policy{
			MaxImages:  MaxImages,
			CheckOwner: true,
			ImagesOnly: true,
		}, log),
	}
}

// Create adds a new listing for userID.
func (s *Service) Create(ctx context.Context, userID, title, listingType string) (*Listing, error) {
	return s.repo.Create(ctx, userID, title, listingType)
}

// GetByID returns a listing.
func (s *Service) GetByID(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// UploadImage appends an image to the listing. The listing must belong to
// userID and be of listingType.
func (s *Service) UploadImage(ctx context.Context, userID, listingID, listingType string, file upload.File) (*Listing, error) {
	return s.images.Attach(ctx, listingID, upload.Request{
		File:      file,
		Prefix:    fmt.Sprintf("public/listings/%s/%s", listingType, listingID),
		Principal: userID,
		Kind:      listingType,
	})
}

// IsNotFound returns true when the error indicates a listing was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type imageSlot struct {
	repo store
}

func (s imageSlot) Load(ctx context.Context, id string) (*upload.Snapshot, error) {
	l, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("listing %s: %w", id, upload.ErrRecordNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &upload.Snapshot{OwnerID: l.UserID, Kind: l.Type, Images: l.Images}, nil
}

func (s imageSlot) Save(ctx context.Context, id string, images []string) (*Listing, error) {
	l, err := s.repo.SetImages(ctx, id, images)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("listing %s: %w", id, upload.ErrRecordNotFound)
	}
	return l, err
}
