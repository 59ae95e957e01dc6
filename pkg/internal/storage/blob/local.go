package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeisme/tablevault/pkg/configs"
	nlog "github.com/yeisme/tablevault/pkg/log"
)

// LocalStore 基于本地文件系统目录的 Store 实现.
type LocalStore struct {
	dir string
}

// NewLocalStore 创建本地目录存储，目录不存在时自动创建.
func NewLocalStore(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = configs.DefaultBlobLocalDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}

	nlog.Logger().Info().Str("dir", dir).Msg("local blob store ready")

	return &LocalStore{dir: dir}, nil
}

// resolve 校验 key 并返回磁盘路径，拒绝路径穿越.
func (s *LocalStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}

	return filepath.Join(s.dir, key), nil
}

// Put 写入对象，先写临时文件再重命名保证不会留下半截文件.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, _ string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("write blob %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize blob %s: %w", key, err)
	}

	return nil
}

// Get 读取对象.
func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

// Stat 返回对象大小.
func (s *LocalStore) Stat(ctx context.Context, key string) (int64, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat blob %s: %w", key, err)
	}

	return info.Size(), nil
}

// Delete 删除对象，不存在视为成功.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// HealthCheck 验证目录可写.
func (s *LocalStore) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("blob dir unavailable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("blob path %s is not a directory", s.dir)
	}

	return nil
}

// Close 本地实现无需操作.
func (s *LocalStore) Close() error {
	return nil
}

func init() {
	RegisterFactory(configs.BlobBackendLocal, NewLocalStore)
}
