package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/config"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
)

// MinioIssuer issues presigned GET URLs for film objects stored in MinIO
type MinioIssuer struct {
	client *minio.Client
	bucket string
}

// NewMinioIssuer creates a presigned-URL issuer from storage config
func NewMinioIssuer(cfg config.StorageConfig) (*MinioIssuer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Log.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Bool("ssl", cfg.UseSSL).
		Msg("Storage client initialized")

	return &MinioIssuer{client: client, bucket: cfg.Bucket}, nil
}

// SignURL returns a presigned GET URL for the media object
func (s *MinioIssuer) SignURL(ctx context.Context, mediaRef string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := time.Now().UTC()

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, mediaRef, ttl, url.Values{})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign %s: %w", mediaRef, err)
	}

	return signed.String(), issuedAt, nil
}
