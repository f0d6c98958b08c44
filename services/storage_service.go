package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"fuellog-api/config"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

// ObjectPutter is the subset of *minio.Client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// StorageService stores user images in an S3-compatible bucket.
type StorageService struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	now     func() time.Time
}

// NewStorageService returns a disabled service when no endpoint or bucket
// is configured.
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.StorageEndpoint == "" || cfg.StorageBucket == "" {
		return &StorageService{now: time.Now}, nil
	}

	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	baseURL := cfg.StoragePublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return &StorageService{
		client:  client,
		bucket:  cfg.StorageBucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// NewStorageServiceWithClient wraps an already configured client.
func NewStorageServiceWithClient(client ObjectPutter, bucket, baseURL string) *StorageService {
	return &StorageService{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (s *StorageService) Enabled() bool {
	return s != nil && s.client != nil
}

// UploadImage stores an image under images/<user>/<yyyymmdd>/<uuid><ext>.
func (s *StorageService) UploadImage(ctx context.Context, userID, filename, contentType string, body io.Reader, size int64) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}

	ext := strings.ToLower(path.Ext(filename))
	key := path.Join("images", userID, s.now().Format("20060102"), uuid.New().String()+ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	return &UploadResult{Key: key, URL: s.baseURL + "/" + key}, nil
}
