package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/crosti/buyerform/config"
)

// uploadPrefix groups raw upload copies inside the bucket.
const uploadPrefix = "uploads"

// MinioScratch keeps raw upload copies in an S3-compatible bucket.
type MinioScratch struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMinioScratch(cfg *config.MinioConfig) (*MinioScratch, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioScratch{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioScratch) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Save uploads data as uploads/<uuid>/<base name> and returns the object URL.
func (s *MinioScratch) Save(ctx context.Context, filename string, data []byte) (string, error) {
	objectName := ObjectName(uuid.New().String(), filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: uploadContentType(filename),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload scratch copy: %w", err)
	}

	return s.ObjectURL(objectName), nil
}

// ObjectName builds the key for an upload copy.
func ObjectName(id, filename string) string {
	return path.Join(uploadPrefix, id, filepath.Base(filename))
}

// ObjectURL returns the address of an object (readable only if the bucket policy allows)
func (s *MinioScratch) ObjectURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}

func uploadContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return XLSXContentType
	default:
		return "application/octet-stream"
	}
}
