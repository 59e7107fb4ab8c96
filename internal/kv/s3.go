package kv

import (
	"context"
	"errors"

	"github.com/windoze95/ingredai-api/internal/s3"
)

// S3Store keeps each entry as one JSON object in an S3 bucket.
type S3Store struct {
	bucket *s3.Bucket
}

// NewS3Store wraps bucket.
func NewS3Store(bucket *s3.Bucket) *S3Store {
	return &S3Store{bucket: bucket}
}

func (s *S3Store) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.bucket.Get(ctx, key)
	if errors.Is(err, s3.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (s *S3Store) Set(ctx context.Context, key, value string) error {
	return s.bucket.Put(ctx, key, []byte(value), "application/json")
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	return s.bucket.Delete(ctx, key)
}
