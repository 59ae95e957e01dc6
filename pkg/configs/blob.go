package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// BlobBackend 文件字节存储后端类型.
type BlobBackend string

const (
	// BlobBackendLocal 本地文件系统目录.
	BlobBackendLocal BlobBackend = "local"
	// BlobBackendS3 S3 兼容对象存储（MinIO 等）.
	BlobBackendS3 BlobBackend = "s3"
)

const (
	DefaultBlobBackend       = BlobBackendLocal // 默认存储后端
	DefaultBlobLocalDir      = "uploads"        // 默认本地存储目录
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3BucketName      = "tablevault"     // 默认存储桶名称
	DefaultS3Region          = "us-east-1"      // 默认区域
)

// BlobConfig 文件字节存储配置，支持本地目录和 S3 两种后端.
type BlobConfig struct {
	Backend  BlobBackend `mapstructure:"backend"   rule:"oneof=local s3"`
	LocalDir string      `mapstructure:"local_dir"`
	S3       S3Config    `mapstructure:"s3"`
}

// S3Config MinIO S3存储配置.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
}

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置 Blob 存储配置的默认值.
func (c *BlobConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("blob.backend", DefaultBlobBackend)
	v.SetDefault("blob.local_dir", DefaultBlobLocalDir)

	v.SetDefault("blob.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("blob.s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("blob.s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("blob.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("blob.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("blob.s3.region", DefaultS3Region)
}
