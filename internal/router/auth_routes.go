package router

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc) {
	authGroup := api.Group("/auth")
	authGroup.Use(authLimiter)

	authGroup.POST("/register", handler.Register)
	authGroup.POST("/login", handler.Login)
	authGroup.POST("/refresh", handler.RefreshToken)
	authGroup.POST("/logout", handler.Logout)
	authGroup.GET("/verify-email", handler.EmailVerify)
	authGroup.GET("/captcha", handler.GetCaptchaImage)
}
