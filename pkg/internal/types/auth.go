// Package types 定义 HTTP 层的请求与响应结构体.
package types

import "time"

// RegisterRequest 用户注册请求.
type RegisterRequest struct {
	Email    string `json:"email"     rule:"required,email,max=255"`
	Username string `json:"username"  rule:"required,min=3,max=64,alphanum"`
	Password string `json:"password"  rule:"required,min=8,max=128"`
	FullName string `json:"full_name" rule:"max=255"`
}

// LoginRequest 用户登录请求，email 与 username 二选一.
type LoginRequest struct {
	Email    string `json:"email"    rule:"omitempty,email"`
	Username string `json:"username" rule:"omitempty,max=64"`
	Password string `json:"password" rule:"required"`
}

// RefreshRequest 刷新令牌请求.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" rule:"required"`
}

// VerifyEmailRequest 邮箱验证请求.
type VerifyEmailRequest struct {
	Token string `json:"token" rule:"required"`
}

// PasswordResetRequest 密码重置请求（发起）.
type PasswordResetRequest struct {
	Email string `json:"email" rule:"required,email"`
}

// PasswordResetConfirm 密码重置确认.
type PasswordResetConfirm struct {
	Token       string `json:"token"        rule:"required"`
	NewPassword string `json:"new_password" rule:"required,min=8,max=128"`
}

// TokenResponse 令牌响应.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"` // 固定 bearer
	ExpiresIn    int64  `json:"expires_in"` // 秒
}

// UserResponse 用户信息响应.
type UserResponse struct {
	ID         uint       `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name,omitempty"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
