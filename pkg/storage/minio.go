package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioConfig holds connection settings for an S3-compatible endpoint.
type MinioConfig struct {
	Endpoint  string // "minio:9000" or "https://minio.example.com"
	AccessKey string
	SecretKey string
	Bucket    string
}

// Minio uploads objects to an S3-compatible endpoint via minio-go.
type Minio struct {
	client *minio.Client
	cfg    MinioConfig
	secure bool
	host   string
}

// NewMinio creates a MinIO client and verifies the bucket exists.
func NewMinio(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*Minio, error) {
	host, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket does not exist: %s", cfg.Bucket)
	}
	logger.Info("MinIO uploader ready", zap.String("endpoint", host), zap.String("bucket", cfg.Bucket))
	return &Minio{client: client, cfg: cfg, secure: secure, host: host}, nil
}

// Upload streams a reader to the bucket and returns the object URL.
func (m *Minio) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := m.client.PutObject(ctx, m.cfg.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.host, m.cfg.Bucket, key), nil
}

// normaliseEndpoint accepts either "host:port" or a scheme-prefixed URL and
// returns the bare host plus whether TLS is in use.
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}
	// No scheme, treat as host:port (insecure by default for local MinIO).
	return raw, false, nil
}
