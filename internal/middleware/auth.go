package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"
	"github.com/yiyuan-9527/YiyuanBlog/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	// statusCache缓存用户状态，减少数据库查询
	// Key: userID (uint), Value: cachedStatus
	statusCache sync.Map
)

const statusCacheTTL = 1 * time.Minute

type cachedStatus struct {
	Status    int
	ExpiresAt time.Time
}

// ClearUserStatusCache 清除指定用户的状态缓存
func ClearUserStatusCache(userID uint) {
	statusCache.Delete(userID)

	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		key := service.RedisKey("auth", "user_status", strconv.FormatUint(uint64(userID), 10))
		_ = redisClient.Del(ctx, key).Err()
	}
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		// 解析 Token, 只接受 access token
		claims, err := utils.ParseAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set("id", claims.ID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// OptionalAuth 带 token 时解析身份, 没带或无效时按访客放行
// 给文章详情这类访客也能看的路由用
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		if claims, err := utils.ParseAccessToken(parts[1]); err == nil {
			c.Set("id", claims.ID)
			c.Set("email", claims.Email)
		}
		c.Next()
	}
}

// UserStatusCheck 检查用户状态是否被封禁
func UserStatusCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("id")
		if !exists {
			// 如果没有上下文中的 id，说明 JWT 中间件可能未执行或失败但未 Abort（理论上不可能），或者顺序不对
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
			c.Abort()
			return
		}

		uid, ok := userID.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
			c.Abort()
			return
		}

		var (
			currentStatus int
			statusFound   bool
		)

		// 优先从 Redis 读取
		if redisClient := service.GetRedisClient(); redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			key := service.RedisKey("auth", "user_status", strconv.FormatUint(uint64(uid), 10))
			cachedStatusStr, err := redisClient.Get(ctx, key).Result()
			if err == nil {
				if parsedStatus, parseErr := strconv.Atoi(cachedStatusStr); parseErr == nil {
					currentStatus = parsedStatus
					statusFound = true
					statusCache.Store(uid, cachedStatus{
						Status:    currentStatus,
						ExpiresAt: time.Now().Add(statusCacheTTL),
					})
				}
			}
		}

		// Redis 未命中或不可用时，回退本地内存缓存
		if !statusFound {
			if val, ok := statusCache.Load(uid); ok {
				cached, typeOk := val.(cachedStatus)
				if typeOk {
					if time.Now().Before(cached.ExpiresAt) {
						currentStatus = cached.Status
						statusFound = true
					} else {
						statusCache.Delete(uid)
					}
				}
			}
		}

		// 如果缓存未命中或过期，查询数据库
		if !statusFound {
			var user model.User
			if err := db.DB.Select("status").First(&user, uid).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
				c.Abort()
				return
			}
			currentStatus = user.Status

			// 写入缓存
			statusCache.Store(uid, cachedStatus{
				Status:    currentStatus,
				ExpiresAt: time.Now().Add(statusCacheTTL),
			})

			if redisClient := service.GetRedisClient(); redisClient != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()

				key := service.RedisKey("auth", "user_status", strconv.FormatUint(uint64(uid), 10))
				_ = redisClient.Set(ctx, key, strconv.Itoa(currentStatus), statusCacheTTL).Err()
			}
		}

		if currentStatus == 2 {
			c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁"})
			c.Abort()
			return
		}

		c.Next()
	}
}
