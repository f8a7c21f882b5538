package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cityportal/backend/internal/storage"
)

// Snapshot is a single consistent read of an owning record's image slot.
type Snapshot struct {
	OwnerID string   // principal that owns the record
	Kind    string   // record category, empty when the record has none
	Images  []string // current URLs in upload order
}

// Slot gives the Attacher read/write access to an owning record's images.
// Load must return ErrRecordNotFound (possibly wrapped) for a missing record.
type Slot[T any] interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, id string, images []string) (T, error)
}

// Policy describes how a slot may be filled.
type Policy struct {
	// Single replaces the one existing image and deletes the old object.
	// Otherwise new images are appended.
	Single bool
	// MaxImages caps appended images. Zero means unbounded.
	MaxImages int
	// CheckOwner requires Request.Principal to own the record.
	CheckOwner bool
	// ImagesOnly additionally checks the declared MIME type.
	ImagesOnly bool
}

// Request is one upload aimed at a slot.
type Request struct {
	File
	Prefix    string // storage namespace, e.g. public/avatars/{userId}
	Principal string // authenticated user id
	Kind      string // declared record category; checked when non-empty
}

// Attacher uploads files into a slot: validate, check limits, store the
// object, then update the record. A record never points at an object that was
// not stored; a failed record update can leave an orphaned object.
//
// Concurrent attaches to the same owner are not serialised; the last record
// write wins.
type Attacher[T any] struct {
	files  *Files
	slot   Slot[T]
	policy Policy
	log    zerolog.Logger
}

// NewAttacher creates an Attacher for slot.
func NewAttacher[T any](files *Files, slot Slot[T], policy Policy, log zerolog.Logger) *Attacher[T] {
	return &Attacher[T]{
		files:  files,
		slot:   slot,
		policy: policy,
		log:    log.With().Str("component", "attacher").Logger(),
	}
}

// Attach stores req.File and links it to the record identified by id.
func (a *Attacher[T]) Attach(ctx context.Context, id string, req Request) (T, error) {
	var zero T

	ext, err := validate(req.File)
	if err != nil {
		return zero, err
	}
	if a.policy.ImagesOnly {
		if err := ValidateImageMIME(req.MIMEType); err != nil {
			return zero, err
		}
	}

	snap, err := a.slot.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("load record: %w", err)
	}
	if a.policy.CheckOwner && snap.OwnerID != req.Principal {
		return zero, ErrNotOwner
	}
	if req.Kind != "" && snap.Kind != req.Kind {
		return zero, ErrTypeMismatch
	}
	if !a.policy.Single && a.policy.MaxImages > 0 && len(snap.Images) >= a.policy.MaxImages {
		return zero, ErrLimitExceeded
	}

	obj, err := a.files.put(ctx, req.Data, ext, req.Prefix, storage.Public)
	if err != nil {
		return zero, err
	}

	var images []string
	if a.policy.Single {
		images = []string{obj.URL}
	} else {
		images = make([]string, 0, len(snap.Images)+1)
		images = append(images, snap.Images...)
		images = append(images, obj.URL)
	}

	updated, err := a.slot.Save(ctx, id, images)
	if err != nil {
		a.log.Warn().Err(err).Str("key", obj.Key).Msg("record update failed, object left orphaned")
		return zero, fmt.Errorf("update record: %w", err)
	}

	if a.policy.Single {
		for _, old := range snap.Images {
			if old != "" && old != obj.URL {
				a.files.discard(ctx, old)
			}
		}
	}

	return updated, nil
}
