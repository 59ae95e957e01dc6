package service_test

import (
	"errors"
	"testing"

	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/service"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewAuthService(ctx)

	user, verifyToken, err := svc.Register(ctx, &itypes.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse",
		FullName: "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.ID == 0 || verifyToken == "" {
		t.Fatalf("register returned user %+v, token %q", user, verifyToken)
	}

	// 重复邮箱与重复用户名分别拒绝
	_, _, err = svc.Register(ctx, &itypes.RegisterRequest{
		Email: "alice@example.com", Username: "alice2", Password: "correct-horse",
	})
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	_, _, err = svc.Register(ctx, &itypes.RegisterRequest{
		Email: "alice2@example.com", Username: "alice", Password: "correct-horse",
	})
	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Fatalf("duplicate username: got %v, want ErrUsernameTaken", err)
	}

	// 错误密码
	_, err = svc.Login(ctx, &itypes.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}

	// 邮箱登录
	tokens, err := svc.Login(ctx, &itypes.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}

	if tokens.TokenType != "bearer" || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("unexpected token response: %+v", tokens)
	}

	// 用户名登录
	if _, err := svc.Login(ctx, &itypes.LoginRequest{Username: "alice", Password: "correct-horse"}); err != nil {
		t.Fatalf("login by username: %v", err)
	}

	// 访问令牌解析回用户 ID
	userID, err := svc.ParseAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if userID != user.ID {
		t.Fatalf("parsed user ID %d, want %d", userID, user.ID)
	}

	// last_login 已更新
	if reloadUser(t, ctx, user.ID).LastLogin == nil {
		t.Fatal("last_login not set after login")
	}
}

func TestRefreshTokenTypeEnforced(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewAuthService(ctx)

	_, _, err := svc.Register(ctx, &itypes.RegisterRequest{
		Email: "bob@example.com", Username: "bob", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tokens, err := svc.Login(ctx, &itypes.LoginRequest{Username: "bob", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// 访问令牌不能当刷新令牌用
	if _, err := svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("refresh with access token: got %v, want ErrInvalidToken", err)
	}

	// 刷新令牌不能当访问令牌用
	if _, err := svc.ParseAccessToken(tokens.RefreshToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("access with refresh token: got %v, want ErrInvalidToken", err)
	}

	if _, err := svc.ParseAccessToken("not-a-token"); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("garbage token: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewAuthService(ctx)

	user, verifyToken, err := svc.Register(ctx, &itypes.RegisterRequest{
		Email: "carol@example.com", Username: "carol", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if reloadUser(t, ctx, user.ID).IsVerified {
		t.Fatal("user verified before token consumed")
	}

	if err := svc.VerifyEmail(ctx, verifyToken); err != nil {
		t.Fatalf("verify email: %v", err)
	}

	if !reloadUser(t, ctx, user.ID).IsVerified {
		t.Fatal("user not verified after token consumed")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewAuthService(ctx)

	_, _, err := svc.Register(ctx, &itypes.RegisterRequest{
		Email: "dave@example.com", Username: "dave", Password: "old-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// 未注册邮箱：服务层返回 ErrUserNotFound，由调用方屏蔽
	if _, _, err := svc.RequestPasswordReset(ctx, "ghost@example.com"); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("unknown email: got %v, want ErrUserNotFound", err)
	}

	_, resetToken, err := svc.RequestPasswordReset(ctx, "dave@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}

	if err := svc.ResetPassword(ctx, resetToken, "new-password"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := svc.Login(ctx, &itypes.LoginRequest{Username: "dave", Password: "old-password"}); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("login with old password: got %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Login(ctx, &itypes.LoginRequest{Username: "dave", Password: "new-password"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestInactiveUserRejected(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewAuthService(ctx)

	user, _, err := svc.Register(ctx, &itypes.RegisterRequest{
		Email: "eve@example.com", Username: "eve", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tokens, err := svc.Login(ctx, &itypes.LoginRequest{Username: "eve", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := ctxPkg.GetDBClient(ctx).DB.Model(&model.User{}).Where("id = ?", user.ID).
		UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := svc.Login(ctx, &itypes.LoginRequest{Username: "eve", Password: "correct-horse"}); !errors.Is(err, service.ErrInactiveUser) {
		t.Fatalf("inactive login: got %v, want ErrInactiveUser", err)
	}

	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, service.ErrInactiveUser) {
		t.Fatalf("inactive refresh: got %v, want ErrInactiveUser", err)
	}
}

func TestResolveProxyUser(t *testing.T) {
	ctx := newTestContext(t)
	svc := service.NewAuthService(ctx)

	first, err := svc.ResolveProxyUser(ctx, "proxy@example.com")
	if err != nil {
		t.Fatalf("resolve (create): %v", err)
	}

	if !first.IsActive || !first.IsVerified {
		t.Fatalf("proxy user should be active and verified: %+v", first)
	}

	second, err := svc.ResolveProxyUser(ctx, "proxy@example.com")
	if err != nil {
		t.Fatalf("resolve (lookup): %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("proxy user duplicated: %d vs %d", first.ID, second.ID)
	}
}
