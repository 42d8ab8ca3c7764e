package user

import (
	"strings"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Username string `json:"username" binding:"required,min=2,max=30"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	newUser := &model.User{
		Username: registerData.Username,
		Email:    registerData.Email,
	}

	if err := h.userService.Register(newUser, registerData.Password); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			util.Logger.Warn("注册失败",
				zap.String("username", newUser.Username),
				zap.Int("error_code", int(appErr.Code)))
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("注册失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "注册失败", err))
		return
	}

	token, err := util.GenerateToken(newUser.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  newUser,
	}, "注册成功")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	loggedIn, err := h.userService.Login(loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(loggedIn.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  loggedIn,
	}, "登录成功")
}

// Logout 把当前令牌加入黑名单
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "缺少令牌"))
		return
	}

	if err := h.userService.Logout(token); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "登出失败", err))
		return
	}
	errors.HandleSuccess(c, nil, "已成功登出")
}

// RefreshToken 处理令牌刷新
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "缺少令牌"))
		return
	}

	newToken, err := util.RefreshToken(token)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "刷新令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "令牌刷新成功")
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
