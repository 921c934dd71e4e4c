package handler

import (
	"net/http"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"
	"github.com/yiyuan-9527/YiyuanBlog/internal/utils"

	"github.com/gin-gonic/gin"
)

// Register 注册新用户并寄出验证邮件
func Register(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required"`
		Password      string `json:"password" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数格式错误"})
		return
	}

	if config.Get().Auth.CaptchaEnabled {
		if !utils.VerifyCaptcha(req.CaptchaID, req.CaptchaAnswer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "验证码错误"})
			return
		}
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email 格式错误"})
		return
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	user, err := service.RegisterUser(req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err, "注册失败，请稍后重试")
		return
	}
	service.SendRegisterVerification(user)

	c.JSON(http.StatusOK, gin.H{"message": "注册成功，请前往邮箱验证"})
}

// Login 登录, 发放 access 和 refresh token
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	user, tokens, err := service.LoginUser(req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err, "登录失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "登录成功",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// RefreshToken 用 refresh token 换新的 access token
func RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	accessToken, err := service.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// EmailVerify 校验邮箱验证 token
func EmailVerify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := service.VerifyEmail(token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "验证失败，链接无效或已过期"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "邮箱验证成功，现在可以登录了"})
}

// Logout 登出
// token 是无状态的, 服务端只负责回应, 客户端自行丢弃 token
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "登出成功"})
}

// GetCaptchaImage 获取图形验证码图片
func GetCaptchaImage(c *gin.Context) {
	if !config.Get().Auth.CaptchaEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "当前未启用图形验证码"})
		return
	}

	id, b64s, _, err := utils.MakeCaptcha()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "验证码生成失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"captcha_id":    id,
		"captcha_image": b64s,
	})
}
