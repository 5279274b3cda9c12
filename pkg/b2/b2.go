package b2

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
	"github.com/rs/zerolog"
)

// Config contains Backblaze B2 credentials and the target bucket.
type Config struct {
	AccountID      string
	ApplicationKey string
	Bucket         string
}

// Storage writes submission files into a B2 bucket.
type Storage struct {
	client *b2.Client
	bucket *b2.Bucket
	logger zerolog.Logger
}

// New authorizes against B2 and resolves the bucket.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*Storage, error) {
	if cfg.AccountID == "" || cfg.ApplicationKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("b2 credentials and bucket must be provided")
	}

	client, err := b2.NewClient(ctx, cfg.AccountID, cfg.ApplicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Storage{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "b2").Logger(),
	}, nil
}

// Upload streams reader to objectPath and returns the public download URL.
func (s *Storage) Upload(ctx context.Context, objectPath string, reader io.Reader) (string, error) {
	key := strings.TrimLeft(objectPath, "/")
	writer := s.bucket.Object(key).NewWriter(ctx)

	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	s.logger.Info().Str("key", key).Msg("file uploaded to b2")
	return objectURL(s.bucket.BaseURL(), s.bucket.Name(), key), nil
}

func objectURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/file/%s/%s", strings.TrimRight(baseURL, "/"), bucket, key)
}
