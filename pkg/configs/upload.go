package configs

import "github.com/spf13/viper"

const (
	DefaultMaxFileSize  = 10 * 1024 * 1024   // 单个文件最大 10MB
	DefaultStorageQuota = 1024 * 1024 * 1024 // 每用户存储配额 1GB
)

// DefaultAllowedExtensions 允许上传的文件扩展名（不含点）.
var DefaultAllowedExtensions = []string{"csv", "xlsx", "xls", "json", "txt"}

// UploadConfig 上传限制与存储配额配置.
type UploadConfig struct {
	MaxFileSize       int64    `mapstructure:"max_file_size"      rule:"min=1"` // 字节
	StorageQuota      int64    `mapstructure:"storage_quota"      rule:"min=1"` // 字节
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// ExtensionAllowed 检查扩展名（小写、不含点）是否在白名单内.
func (c *UploadConfig) ExtensionAllowed(ext string) bool {
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}

	return false
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.max_file_size", DefaultMaxFileSize)
	v.SetDefault("upload.storage_quota", DefaultStorageQuota)
	v.SetDefault("upload.allowed_extensions", DefaultAllowedExtensions)
}
