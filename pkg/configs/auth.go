package configs

import (
	"time"

	"github.com/spf13/viper"
)

// AuthMode 认证模式.
type AuthMode string

const (
	// AuthModeJWT 本地签发和校验 JWT.
	AuthModeJWT AuthMode = "jwt"
	// AuthModeProxy 信任身份代理注入的请求头（oauth2-proxy 等）.
	AuthModeProxy AuthMode = "proxy"
)

const (
	DefaultAuthMode              = AuthModeJWT  // 默认认证模式
	DefaultJWTSecret             = ""           // JWT 签名密钥，生产环境必须配置
	DefaultAccessTokenTTL        = 30           // 访问令牌有效期（分钟）
	DefaultRefreshTokenTTL       = 7 * 24 * 60  // 刷新令牌有效期（分钟）
	DefaultVerificationTokenTTL  = 24 * 60      // 邮箱验证令牌有效期（分钟）
	DefaultPasswordResetTokenTTL = 60           // 密码重置令牌有效期（分钟）
	DefaultProxyUserHeader       = "X-Auth-Request-Email"
	DefaultProxyFallbackHeader   = "X-Forwarded-Email"
)

// AuthConfig 认证配置，支持本地 JWT 与代理委托两种模式.
type AuthConfig struct {
	Mode                  AuthMode `mapstructure:"mode"                     rule:"oneof=jwt proxy"`
	JWTSecret             string   `mapstructure:"jwt_secret"`
	AccessTokenTTL        int      `mapstructure:"access_token_ttl"         rule:"min=1"`  // 分钟
	RefreshTokenTTL       int      `mapstructure:"refresh_token_ttl"        rule:"min=1"`  // 分钟
	VerificationTokenTTL  int      `mapstructure:"verification_token_ttl"   rule:"min=1"`  // 分钟
	PasswordResetTokenTTL int      `mapstructure:"password_reset_token_ttl" rule:"min=1"`  // 分钟
	ProxyUserHeader       string   `mapstructure:"proxy_user_header"`
	ProxyFallbackHeader   string   `mapstructure:"proxy_fallback_header"`
}

// GetAccessTokenTTL 返回访问令牌有效期.
func (c *AuthConfig) GetAccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Minute
}

// GetRefreshTokenTTL 返回刷新令牌有效期.
func (c *AuthConfig) GetRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTL) * time.Minute
}

// GetVerificationTokenTTL 返回邮箱验证令牌有效期.
func (c *AuthConfig) GetVerificationTokenTTL() time.Duration {
	return time.Duration(c.VerificationTokenTTL) * time.Minute
}

// GetPasswordResetTokenTTL 返回密码重置令牌有效期.
func (c *AuthConfig) GetPasswordResetTokenTTL() time.Duration {
	return time.Duration(c.PasswordResetTokenTTL) * time.Minute
}

// setDefaults 设置认证配置的默认值.
func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.mode", DefaultAuthMode)
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.access_token_ttl", DefaultAccessTokenTTL)
	v.SetDefault("auth.refresh_token_ttl", DefaultRefreshTokenTTL)
	v.SetDefault("auth.verification_token_ttl", DefaultVerificationTokenTTL)
	v.SetDefault("auth.password_reset_token_ttl", DefaultPasswordResetTokenTTL)
	v.SetDefault("auth.proxy_user_header", DefaultProxyUserHeader)
	v.SetDefault("auth.proxy_fallback_header", DefaultProxyFallbackHeader)
}
