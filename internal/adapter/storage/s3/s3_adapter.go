package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Storage is the listing image blob store on MinIO or any S3 compatible endpoint.
type Storage struct {
	client   *minio.Client
	bucket   string
	endpoint *url.URL
	logger   *logger.Logger
}

func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*Storage, error) {
	log = log.Named("S3Storage")
	log.Info("Initializing object storage", zap.String("endpoint", endpoint), zap.String("bucket", bucket), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}
	s := &Storage{client: client, bucket: bucket, endpoint: client.EndpointURL(), logger: log}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureBucket creates the bucket on first start and makes its objects
// anonymously readable so image URLs work in browsers.
func (s *Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to make bucket %s: %w", s.bucket, err)
		}
		s.logger.Info("Bucket created", zap.String("bucket", s.bucket))
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
		return fmt.Errorf("failed to set policy on bucket %s: %w", s.bucket, err)
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// Upload stores data under path and returns path as the stored reference.
func (s *Storage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", path), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", path, s.bucket, err)
	}
	s.logger.Debug("Object uploaded", zap.String("key", info.Key), zap.String("etag", info.ETag), zap.Int64("size", info.Size))
	return path, nil
}

// PublicURL is <endpoint>/<bucket>/<ref>.
func (s *Storage) PublicURL(ref string) string {
	u := *s.endpoint
	u.Path = "/" + s.bucket + "/" + strings.TrimPrefix(ref, "/")
	return u.String()
}
