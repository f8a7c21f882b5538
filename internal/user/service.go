package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cityportal/backend/internal/upload"
)

// store is the persistence the Service needs; *Repository implements it.
type store interface {
	Create(ctx context.Context, email, passwordHash string, name *string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetCredentials(ctx context.Context, email string) (*User, string, error)
	SetAvatar(ctx context.Context, id, avatarURL string) (*User, error)
}

// Service contains business logic for user management.
type Service struct {
	repo    store
	avatars *upload.Attacher[*User]
}

// NewService creates a new user Service. Avatars are single-slot, image-only.
func NewService(repo store, files *upload.Files, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		avatars: upload.NewAttacher[*User](files, avatarSlot{repo: repo}, upload.Policy{
			Single:     true,
			ImagesOnly: true,
		}, log),
	}
}

// Create registers a new user account.
func (s *Service) Create(ctx context.Context, email, passwordHash string, name *string) (*User, error) {
	u, err := s.repo.Create(ctx, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByID returns a user by their UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetCredentials returns a user and their password hash by email.
func (s *Service) GetCredentials(ctx context.Context, email string) (*User, string, error) {
	return s.repo.GetCredentials(ctx, email)
}

// UploadAvatar stores file as the user's avatar under public/avatars/{userID}
// and deletes the previous avatar object when it belongs to this store.
func (s *Service) UploadAvatar(ctx context.Context, userID string, file upload.File) (*User, error) {
	return s.avatars.Attach(ctx, userID, upload.Request{
		File:      file,
		Prefix:    "public/avatars/" + userID,
		Principal: userID,
	})
}

// IsNotFound returns true when the error indicates a user was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// avatarSlot exposes the avatar column as a single image slot.
type avatarSlot struct {
	repo store
}

func (a avatarSlot) Load(ctx context.Context, id string) (*upload.Snapshot, error) {
	u, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, upload.ErrRecordNotFound)
	}
	if err != nil {
		return nil, err
	}
	snap := &upload.Snapshot{OwnerID: u.ID}
	if u.AvatarURL != nil && *u.AvatarURL != "" {
		snap.Images = []string{*u.AvatarURL}
	}
	return snap, nil
}

func (a avatarSlot) Save(ctx context.Context, id string, images []string) (*User, error) {
	if len(images) != 1 {
		return nil, fmt.Errorf("avatar slot holds one image, got %d", len(images))
	}
	u, err := a.repo.SetAvatar(ctx, id, images[0])
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, upload.ErrRecordNotFound)
	}
	return u, err
}
