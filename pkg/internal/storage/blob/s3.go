package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/tablevault/pkg/configs"
	nlog "github.com/yeisme/tablevault/pkg/log"
)

// S3Store 基于 MinIO 客户端的 Store 实现.
type S3Store struct {
	cli    *minio.Client
	bucket string
}

// NewS3Store 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func NewS3Store(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
	s3cfg := cfg.S3

	endpoint := s3cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			s3cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		Secure: s3cfg.UseSSL,
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("tablevault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, s3cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s3cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, s3cfg.BucketName, minio.MakeBucketOptions{Region: s3cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s3cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", s3cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", s3cfg.Endpoint).Str("bucket", s3cfg.BucketName).Msg("s3 blob store connected")

	return &S3Store{cli: cli, bucket: s3cfg.BucketName}, nil
}

// Put 写入对象.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}

	if _, err := s.cli.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// Get 读取对象.
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.cli.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	// GetObject 惰性打开，Stat 强制校验对象存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	return obj, nil
}

// Stat 返回对象大小.
func (s *S3Store) Stat(ctx context.Context, key string) (int64, error) {
	info, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("stat object %s: %w", key, err)
	}

	return info.Size, nil
}

// Delete 删除对象.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := s.cli.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// HealthCheck 通过列出桶来验证连接.
func (s *S3Store) HealthCheck(ctx context.Context) error {
	_, err := s.cli.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (s *S3Store) Close() error {
	return nil
}

func init() {
	RegisterFactory(configs.BlobBackendS3, NewS3Store)
}
