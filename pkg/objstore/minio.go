// Package objstore sao chép các file archive lên S3/MinIO
package objstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

type Store struct {
	Logger     log.Logger
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewStore(config *cfg.Config, logger log.Logger) (*Store, error) {
	oc := config.ObjectStore
	endpoint := strings.TrimSpace(oc.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is required")
	}
	access := strings.TrimSpace(oc.AccessKey)
	secret := strings.TrimSpace(oc.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("object store access key and secret key are required")
	}
	bucket := strings.TrimSpace(oc.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}
	region := strings.TrimSpace(oc.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: oc.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}

	return &Store{
		Logger:     logger,
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// ObjectKey đổi đường dẫn file thành key tương đối so với root, dùng dấu "/"
func ObjectKey(root, path string) (string, error) {
	root = filepath.Clean(root)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of %s", path, root)
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(root), rel)), nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".csv":
		return "text/csv"
	case ".parquet":
		return "application/vnd.apache.parquet"
	}
	return "application/octet-stream"
}

// Mirror tải các file lên bucket, key giữ nguyên cấu trúc archive/<since>/...
func (s *Store) Mirror(ctx context.Context, root string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	for _, path := range paths {
		key, err := ObjectKey(root, path)
		if err != nil {
			return err
		}
		if _, err := s.client.FPutObject(ctx, s.bucketName, key, path, minio.PutObjectOptions{
			ContentType: contentType(path),
		}); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
	}
	s.Logger.Info(ctx, "Mirrored %d archive files to bucket %s", len(paths), s.bucketName)
	return nil
}
