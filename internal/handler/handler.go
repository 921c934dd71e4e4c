package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

// currentUserID 从 JWT 中间件写入的上下文取用户 ID
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return 0, false
	}
	uid, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
		return 0, false
	}
	return uid, true
}

// optionalUserID 访客路由用, 没登录时返回 nil
func optionalUserID(c *gin.Context) *uint {
	userID, exists := c.Get("id")
	if !exists {
		return nil
	}
	if uid, ok := userID.(uint); ok {
		return &uid
	}
	return nil
}

// paramUint 解析路径参数里的数字 ID
func paramUint(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return 0, false
	}
	return uint(n), true
}

// writeUploadError 上传链路的错误映射
// 文件验证失败的原因直接回给用户, 其余走通用映射
func writeUploadError(c *gin.Context, err error) {
	errStr := err.Error()
	for _, hint := range []string{"不能超过", "不支持", "不匹配", "无法识别", "验证失败"} {
		if strings.Contains(errStr, hint) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errStr})
			return
		}
	}
	writeServiceError(c, err, "上传失败，请稍后重试")
}

// writeServiceError 把 service 层的业务错误映射成 HTTP 状态码
// 配额不足用 413, 和上传超大的语义一致
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrQuotaExceeded):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrSamePlan),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrParentMismatch),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrNotFollowing),
		errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrEmailNotVerified):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserBanned),
		errors.Is(err, service.ErrNotPostAuthor),
		errors.Is(err, service.ErrNotAlbumAuthor),
		errors.Is(err, service.ErrNotCommentAuthor),
		errors.Is(err, service.ErrPostNotVisible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrAlbumNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
