// Package service 实现业务逻辑层，位于 handle 与 storage 之间.
package service

import "errors"

// 业务错误哨兵，由 handle 层映射为 HTTP 状态码.
var (
	// ErrNotFound 记录不存在、已软删除或不属于调用者，响应上不可区分.
	ErrNotFound = errors.New("file not found")
	// ErrAlreadyProcessing 分析已在进行中，重复触发被拒绝.
	ErrAlreadyProcessing = errors.New("analysis already in progress")
	// ErrNotYetAnalyzed 文件尚未触发过分析.
	ErrNotYetAnalyzed = errors.New("file has not been analyzed yet")
	// ErrQuotaExceeded 上传会超出存储配额.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrFileTooLarge 超出单文件大小上限.
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	// ErrEmptyFile 空文件.
	ErrEmptyFile = errors.New("file is empty")
	// ErrExtensionNotAllowed 扩展名不在白名单内.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	// ErrInvalidCredentials 用户名或密码错误.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken 邮箱已注册.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken 用户名已占用.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound 用户不存在.
	ErrUserNotFound = errors.New("user not found")
	// ErrInactiveUser 账号已停用.
	ErrInactiveUser = errors.New("user account is inactive")
	// ErrInvalidToken 令牌无效或已过期.
	ErrInvalidToken = errors.New("invalid or expired token")
)
