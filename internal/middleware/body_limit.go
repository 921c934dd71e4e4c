package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"

	"github.com/gin-gonic/gin"
)

// BodyLimitMiddleware 限制请求体大小
func BodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 跳过上传相关的路由
		// 这里简单通过路径判断
		path := c.Request.URL.Path
		if strings.Contains(path, "/upload") {
			c.Next()
			return
		}

		maxSizeMB := config.Get().Upload.MaxRequestBodyMB
		if maxSizeMB <= 0 {
			// 如果未设置或为0，默认 2MB
			maxSizeMB = 2
		}

		// 限制大小 (MB -> Bytes)
		maxBytes := int64(maxSizeMB) * 1024 * 1024

		// 使用 MaxBytesReader 限制读取的字节数
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制上传接口的请求体大小
// 图片和影片的上限不同, 由调用方按路由传入
func UploadBodyLimitMiddleware(maxSizeMBFn func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := maxSizeMBFn()
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		maxBytes := int64(maxSizeMB) * 1024 * 1024

		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// ImageUploadLimit 图片上传接口的大小上限
func ImageUploadLimit() gin.HandlerFunc {
	return UploadBodyLimitMiddleware(func() int {
		return config.Get().Upload.MaxImageSizeMB
	})
}

// BatchImageUploadLimit 批量图片上传的大小上限, 按单张上限放宽十倍
func BatchImageUploadLimit() gin.HandlerFunc {
	return UploadBodyLimitMiddleware(func() int {
		return config.Get().Upload.MaxImageSizeMB * 10
	})
}

// VideoUploadLimit 影片上传接口的大小上限
func VideoUploadLimit() gin.HandlerFunc {
	return UploadBodyLimitMiddleware(func() int {
		return config.Get().Upload.MaxVideoSizeMB
	})
}
