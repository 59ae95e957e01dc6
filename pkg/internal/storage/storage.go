// Package storage 聚合数据库、Blob、KV 与 MQ 等存储资源的初始化和访问.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	blobClient := mgr.GetBlobClient()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/tablevault/pkg/configs"
	blobc "github.com/yeisme/tablevault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/tablevault/pkg/internal/storage/db"
	kvc "github.com/yeisme/tablevault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/tablevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/tablevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB   *dbc.Client
	Blob *blobc.Client
	KV   *kvc.Client
	MQ   *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
// DB 与 Blob 是必须的，初始化失败直接报错；KV 与 MQ 失败时降级为 nil 并记录警告.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		m := &Manager{}

		// DB
		if dbi, e := dbc.New(ctx); e != nil {
			err = e
			return
		} else {
			m.DB = dbi
		}

		// Blob
		if bi, e := blobc.New(ctx); e != nil {
			err = e
			return
		} else {
			m.Blob = bi
		}

		// KV（可选）
		if kvi, e := kvc.NewKVClient(ctx); e != nil {
			nlog.Logger().Warn().Err(e).Msg("kv unavailable, caching disabled")
		} else {
			m.KV = kvi
		}

		// MQ（可选）
		if configs.GetConfig().MQ.Type != "" {
			if mqi, e := mqc.New(ctx); e != nil {
				nlog.Logger().Warn().Err(e).Msg("mq unavailable, events disabled")
			} else {
				m.MQ = mqi
			}
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetBlobClient 获取 Blob 客户端.
func (m *Manager) GetBlobClient() *blobc.Client {
	return m.Blob
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端，未启用时返回 nil.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端，未启用时返回 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放所有存储资源.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.Blob != nil {
		if e := m.Blob.Close(); e != nil {
			err = e
		}
	}

	return err
}
