package minio

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MaxPresignExpiry is the longest lifetime S3-compatible stores accept for a presigned URL.
const MaxPresignExpiry = 7 * 24 * time.Hour

// MinioClient is the object store for claim evidence. All objects live in one private bucket.
type MinioClient struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger
}

// NewMinioClient initializes a MinIO client and checks that the server answers.
func NewMinioClient(ctx context.Context, cfg config.MinioConfig, logger zerolog.Logger) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	log := logger.With().Str("component", "minio").Logger()

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		log.Warn().Err(err).Msg("invalid MINIO_SECURE value, defaulting to false")
		isSecure = false
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
		Region: cfg.MinioLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.ListBuckets(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}

	log.Info().Str("endpoint", cfg.MinioURL).Msg("connected to MinIO")

	return &MinioClient{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.MinioLocation,
		logger: log,
	}, nil
}

// EnsureBucket creates the evidence bucket if it doesn't exist. Safe to call on every start.
func (mc *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := mc.client.BucketExists(ctx, mc.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		mc.logger.Info().Str("bucket", mc.bucket).Msg("bucket already exists")
		return nil
	}

	if err := mc.client.MakeBucket(ctx, mc.bucket, minio.MakeBucketOptions{Region: mc.region}); err != nil {
		return fmt.Errorf("error creating bucket %s: %w", mc.bucket, err)
	}
	mc.logger.Info().Str("bucket", mc.bucket).Msg("created bucket")
	return nil
}

// UploadBytes stores data under objectName.
func (mc *MinioClient) UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := mc.client.PutObject(ctx, mc.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", objectName, mc.bucket, err)
	}

	mc.logger.Debug().Str("object", objectName).Int("bytes", len(data)).Msg("uploaded object")
	return nil
}

// PresignedURL returns a GET URL for objectName. Lifetimes above MaxPresignExpiry are clamped.
func (mc *MinioClient) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if expiry > MaxPresignExpiry {
		expiry = MaxPresignExpiry
	}
	u, err := mc.client.PresignedGetObject(ctx, mc.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s in bucket %s: %w", objectName, mc.bucket, err)
	}
	return u.String(), nil
}
