package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// publicPrefix is the key namespace readable without a signature.
const publicPrefix = "public/"

// compile-time check that MinioStorage satisfies Storage.
var _ Storage = (*MinioStorage)(nil)

// MinioStorage implements Storage on top of minio-go against any S3-compatible backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	host       string
	publicBase string
	log        zerolog.Logger
}

// NewMinioStorage validates cfg and returns a client using path-style addressing.
// No network call is made; use EnsureBucket to bootstrap a development bucket.
func NewMinioStorage(cfg Config, log zerolog.Logger) (*MinioStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	host, scheme, err := cfg.hostAndScheme()
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       scheme == "https",
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     cfg.Bucket,
		host:       host,
		publicBase: fmt.Sprintf("%s://%s/%s", scheme, host, cfg.Bucket),
		log:        log.With().Str("component", "storage").Logger(),
	}, nil
}

// EnsureBucket creates the bucket if needed and grants anonymous read on the
// public/ prefix. Backends like MinIO ignore per-object ACLs, so this policy is
// what makes public uploads reachable there.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", s.bucket, err)
		}
		s.log.Info().Str("bucket", s.bucket).Msg("created bucket")
	}

	if err := s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// Put uploads data under key in a single request.
func (s *MinioStorage) Put(ctx context.Context, key string, data []byte, contentType string, vis Visibility) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if vis == Public {
		opts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("%w: put object %q: %w", ErrUnavailable, key, err)
	}
	return nil
}

// Delete removes the object at key. Deleting a missing key is not an error on S3.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %q: %w", ErrUnavailable, key, err)
	}
	return nil
}

// PublicURL returns "{scheme}://{host}/{bucket}/{key}".
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// SignedURL presigns a GET for key valid for ttl (DefaultSignedURLTTL when ttl <= 0).
func (s *MinioStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("%w: presign %q: %w", ErrUnavailable, key, err)
	}
	return u.String(), nil
}

// KeyFromURL parses a URL produced by PublicURL for this host and bucket.
func (s *MinioStorage) KeyFromURL(rawURL string) (string, bool) {
	return ParseKey(rawURL, s.host, s.bucket)
}

// Bucket returns the configured bucket name.
func (s *MinioStorage) Bucket() string {
	return s.bucket
}

// publicReadPolicy returns an S3 bucket policy that allows anonymous GET under public/.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": map[string]interface{}{"AWS": []string{"*"}},
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/%s*", bucket, publicPrefix)},
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
