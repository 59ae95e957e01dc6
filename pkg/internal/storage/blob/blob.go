// Package blob 处理文件字节存储操作，支持本地目录和 S3 两种后端.
package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/yeisme/tablevault/pkg/configs"
)

// Client 包装具体的 Store 实现.
type Client struct {
	Store
}

// Store 定义文件字节存储接口.
type Store interface {
	// Put 写入对象，size 为内容长度（未知时传 -1）.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get 读取对象，调用方负责 Close.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat 返回对象大小，对象不存在时返回错误.
	Stat(ctx context.Context, key string) (int64, error)
	// Delete 删除对象，不存在视为成功.
	Delete(ctx context.Context, key string) error
	// HealthCheck 验证后端可用性.
	HealthCheck(ctx context.Context) error
	// Close 释放资源.
	Close() error
}

// Factory 定义创建 Store 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.BlobConfig) (Store, error)

// factories 存储后端类型到工厂的映射.
var factories = make(map[configs.BlobBackend]Factory)

// RegisterFactory 注册 Blob 后端工厂函数.
func RegisterFactory(backend configs.BlobBackend, factory Factory) {
	factories[backend] = factory
}

// GetRegisteredBackends 返回已注册的后端列表.
func GetRegisteredBackends() []configs.BlobBackend {
	backends := make([]configs.BlobBackend, 0, len(factories))
	for backend := range factories {
		backends = append(backends, backend)
	}

	return backends
}

// New 根据全局配置创建 Blob 客户端.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().Blob

	store, err := NewStore(ctx, cfg.Backend, &cfg)
	if err != nil {
		return nil, err
	}

	return &Client{Store: store}, nil
}

// NewStore 根据后端类型创建 Store 实例.
func NewStore(ctx context.Context, backend configs.BlobBackend, cfg *configs.BlobConfig) (Store, error) {
	factory, exists := factories[backend]
	if !exists {
		return nil, fmt.Errorf("unsupported blob backend: %s", backend)
	}

	return factory(ctx, cfg)
}
