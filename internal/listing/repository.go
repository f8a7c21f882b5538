// Package listing manages marketplace listings and their image galleries.
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Listing types.
const (
	TypeGoods      = "goods"
	TypeJobs       = "jobs"
	TypeAutos      = "autos"
	TypeRealEstate = "real_estate"
)

// MaxImages is the maximum number of images a listing can hold.
const MaxImages = 10

// Listing is a marketplace listing. Images are public URLs in upload order.
type Listing struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("listing not found")

const listingColumns = `id, user_id, title, type, images, created_at, updated_at`

// Repository handles listing persistence.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new listing Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a listing owned by userID with no images.
func (r *Repository) Create(ctx context.Context, userID, title, listingType string) (*Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx,
		`INSERT INTO listings (user_id, title, type)
		 VALUES ($1, $2, $3)
		 RETURNING `+listingColumns,
		userID, title, listingType,
	))
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return l, nil
}

// GetByID fetches a listing with its owner, type and images in one read.
func (r *Repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing by id: %w", err)
	}
	return l, nil
}

// SetImages replaces the image list and returns the updated listing.
func (r *Repository) SetImages(ctx context.Context, id string, images []string) (*Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx,
		`UPDATE listings SET images = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+listingColumns,
		id, images,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set listing images: %w", err)
	}
	return l, nil
}

func scanListing(row pgx.Row) (*Listing, error) {
	l := &Listing{}
	if err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.Type, &l.Images, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	return l, nil
}
