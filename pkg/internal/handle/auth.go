package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/internal/types"
	"github.com/yeisme/tablevault/pkg/log"
	"github.com/yeisme/tablevault/pkg/rule"
)

// Register 用户注册.
//
//	@Summary		注册新用户
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.RegisterRequest	true	"注册信息"
//	@Success		201		{object}	types.UserResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/api/v1/auth/register [post]
func Register(c *gin.Context) {
	l := log.Logger()

	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewAuthService(c.Request.Context())

	user, verifyToken, err := svc.Register(c.Request.Context(), &req)
	if err != nil {
		l.Warn().Err(err).Str("email", req.Email).Msg("register failed")
		abortWith(c, err)

		return
	}

	// 邮件发送失败不影响注册结果
	if err := service.NewMailService().SendVerification(user.Email, verifyToken); err != nil {
		l.Warn().Err(err).Str("email", user.Email).Msg("failed to send verification mail")
	}

	c.JSON(http.StatusCreated, user)
}

// Login 用户登录，签发令牌对.
func Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	svc := service.NewAuthService(c.Request.Context())

	tokens, err := svc.Login(c.Request.Context(), &req)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Refresh 刷新令牌对.
func Refresh(c *gin.Context) {
	var req types.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	svc := service.NewAuthService(c.Request.Context())

	tokens, err := svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, tokens)
}

// VerifyEmail 消费验证令牌.
func VerifyEmail(c *gin.Context) {
	var req types.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	svc := service.NewAuthService(c.Request.Context())
	if err := svc.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// RequestPasswordReset 发起密码重置.
// 无论邮箱是否存在都返回 200，避免探测注册用户.
func RequestPasswordReset(c *gin.Context) {
	l := log.Logger()

	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	svc := service.NewAuthService(c.Request.Context())

	user, token, err := svc.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, service.ErrUserNotFound) {
			l.Error().Err(err).Msg("password reset request failed")
		}
	} else if err := service.NewMailService().SendPasswordReset(user.Email, token); err != nil {
		l.Warn().Err(err).Str("email", user.Email).Msg("failed to send password reset mail")
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a reset mail has been sent"})
}

// ConfirmPasswordReset 消费重置令牌并更新密码.
func ConfirmPasswordReset(c *gin.Context) {
	var req types.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewAuthService(c.Request.Context())
	if err := svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// Logout 登出确认.
// 令牌是无状态 JWT，服务端不保存会话，由客户端丢弃令牌完成登出.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// Me 返回当前用户信息.
func Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	svc := service.NewAuthService(c.Request.Context())

	user, err := svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}
