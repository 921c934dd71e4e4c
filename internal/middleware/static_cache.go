package middleware

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/config"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为静态资源添加 Cache-Control 头
// 上传的图片影片文件名带 uuid, 放心长缓存
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cc := config.Get().Upload.StaticCacheControl
		if cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
