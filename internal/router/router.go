package router

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 注册全部 API 路由
func InitRouter(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	// 应用请求体大小限制中间件
	api.Use(middleware.BodyLimitMiddleware())

	// 认证限流在多个域路由中复用同一个实例，保持行为一致
	authLimiter := middleware.AuthRateLimit()
	uploadLimiter := middleware.UploadRateLimit()

	registerAuthRoutes(api, authLimiter)
	registerUserRoutes(api)
	registerStorageRoutes(api)
	registerPostRoutes(api, uploadLimiter)
	registerAlbumRoutes(api, uploadLimiter)
}
