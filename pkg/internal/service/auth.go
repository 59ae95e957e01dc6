package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/storage/db"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
	"github.com/yeisme/tablevault/pkg/queue"
)

// 令牌用途.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeVerify  = "verify"
	tokenTypeReset   = "reset"
)

// AuthService 负责注册、登录与令牌签发校验.
type AuthService struct {
	dbClient *db.Client
	cfg      *configs.AuthConfig
}

// NewAuthService 从 context 组装 AuthService.
func NewAuthService(c context.Context) *AuthService {
	return &AuthService{
		dbClient: ctxPkg.GetDBClient(c),
		cfg:      &configs.GetConfig().Auth,
	}
}

// authClaims JWT 负载.
type authClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Register 创建新用户并返回邮箱验证令牌.
func (s *AuthService) Register(ctx context.Context, req *itypes.RegisterRequest) (*itypes.UserResponse, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	var count int64
	if err := s.dbClient.DB.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, "", err
	}

	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	if err := s.dbClient.DB.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, "", err
	}

	if count > 0 {
		return nil, "", ErrUsernameTaken
	}

	user := model.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: string(hashed),
		FullName:       req.FullName,
		IsActive:       true,
	}

	if err := s.dbClient.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	if pub := ctxPkg.GetMQClient(ctx).Publisher(); pub != nil {
		_ = queue.PublishUserRegistered(pub, queue.UserRegisteredPayload{
			UserID:   user.ID,
			Email:    user.Email,
			Username: user.Username,
		})
	}

	verifyToken, err := s.issueToken(user.ID, tokenTypeVerify, s.cfg.GetVerificationTokenTTL())
	if err != nil {
		return nil, "", err
	}

	resp := user.ToResponse()

	return &resp, verifyToken, nil
}

// Login 校验凭据并签发令牌对，email 与 username 二选一.
func (s *AuthService) Login(ctx context.Context, req *itypes.LoginRequest) (*itypes.TokenResponse, error) {
	query := s.dbClient.DB.WithContext(ctx)

	switch {
	case req.Email != "":
		query = query.Where("email = ?", req.Email)
	case req.Username != "":
		query = query.Where("username = ?", req.Username)
	default:
		return nil, ErrInvalidCredentials
	}

	var user model.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	now := time.Now()
	_ = s.dbClient.DB.WithContext(ctx).Model(&user).UpdateColumn("last_login", now).Error

	return s.issueTokenPair(user.ID)
}

// Refresh 用刷新令牌换取新令牌对.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*itypes.TokenResponse, error) {
	userID, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return s.issueTokenPair(user.ID)
}

// VerifyEmail 消费验证令牌并标记邮箱已验证.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.parseToken(token, tokenTypeVerify)
	if err != nil {
		return err
	}

	return s.dbClient.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("is_verified", true).Error
}

// RequestPasswordReset 为邮箱对应用户签发重置令牌.
// 用户不存在时返回 ErrUserNotFound，调用方不应将此区别暴露给客户端.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*model.User, string, error) {
	var user model.User
	if err := s.dbClient.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}

		return nil, "", err
	}

	token, err := s.issueToken(user.ID, tokenTypeReset, s.cfg.GetPasswordResetTokenTTL())
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// ResetPassword 消费重置令牌并更新密码.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.parseToken(token, tokenTypeReset)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.dbClient.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("hashed_password", string(hashed)).Error
}

// GetUser 按 ID 获取用户.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.dbClient.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}

// ParseAccessToken 校验访问令牌并返回用户 ID，供认证中间件使用.
func (s *AuthService) ParseAccessToken(token string) (uint, error) {
	return s.parseToken(token, tokenTypeAccess)
}

// ResolveProxyUser 按代理注入的邮箱查找或创建用户（proxy 认证模式）.
// 代理侧已完成认证，本地记录仅用于归属与计数.
func (s *AuthService) ResolveProxyUser(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := s.dbClient.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = model.User{
		Email:      email,
		Username:   email,
		IsActive:   true,
		IsVerified: true,
	}

	if err := s.dbClient.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create proxy user: %w", err)
	}

	return &user, nil
}

// issueTokenPair 签发访问+刷新令牌.
func (s *AuthService) issueTokenPair(userID uint) (*itypes.TokenResponse, error) {
	access, err := s.issueToken(userID, tokenTypeAccess, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return nil, err
	}

	refresh, err := s.issueToken(userID, tokenTypeRefresh, s.cfg.GetRefreshTokenTTL())
	if err != nil {
		return nil, err
	}

	return &itypes.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) issueToken(userID uint, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "tablevault",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *AuthService) parseToken(tokenString, wantType string) (uint, error) {
	var claims authClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}
