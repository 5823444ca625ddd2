package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/geovault/pkg/configs"
	nlog "github.com/yeisme/geovault/pkg/log"
)

// S3Store is the MinIO-backed content store. Store paths map directly to
// object keys inside a single bucket.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store initializes the MinIO client and ensures the bucket exists.
func NewS3Store(ctx context.Context, cfg *configs.StorageConfig) (*S3Store, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	// allow a full scheme endpoint (http:// or https://)
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("geovault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	return &S3Store{client: cli, bucket: cfg.BucketName}, nil
}

func (s *S3Store) Write(ctx context.Context, p string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, path.Clean(p),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("put object %s: %w", p, err)
	}

	return nil
}

func (s *S3Store) Read(ctx context.Context, p string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path.Clean(p), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", p, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read object %s: %w", p, err)
	}

	return data, nil
}

func (s *S3Store) List(ctx context.Context, dir string) ([]string, error) {
	prefix := path.Clean(dir) + "/"

	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})

	names := make([]string, 0)

	for obj := range ch {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects under %s: %w", dir, obj.Err)
		}

		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		names = append(names, strings.TrimPrefix(obj.Key, prefix))
	}

	return names, nil
}

func (s *S3Store) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path.Clean(p), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}

		return false, fmt.Errorf("stat object %s: %w", p, err)
	}

	return true, nil
}

func (s *S3Store) RemoveAll(ctx context.Context, dir string) error {
	prefix := path.Clean(dir) + "/"

	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for obj := range ch {
		if obj.Err != nil {
			return fmt.Errorf("list objects under %s: %w", dir, obj.Err)
		}

		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s: %w", obj.Key, err)
		}
	}

	return nil
}
