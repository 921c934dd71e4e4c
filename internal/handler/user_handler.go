package handler

import (
	"net/http"

	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMyProfile 查询自己的个人资料
func GetMyProfile(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := service.GetUserByID(uid)
	if err != nil {
		writeServiceError(c, err, "查询用户失败")
		return
	}
	followers, err := service.FollowersCount(uid)
	if err != nil {
		writeServiceError(c, err, "查询用户失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"email":           user.Email,
		"bio":             user.Bio,
		"avatar":          user.Avatar,
		"email_verified":  user.EmailVerified,
		"followers_count": followers,
	})
}

// UpdateMyProfile 更新用户名和简介
func UpdateMyProfile(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
		Bio      string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	user, err := service.UpdateProfile(uid, req.Username, req.Bio)
	if err != nil {
		writeServiceError(c, err, "更新资料失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "更新成功",
		"username": user.Username,
		"bio":      user.Bio,
	})
}

// FollowUser 追踪指定用户
func FollowUser(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := service.FollowUser(uid, targetID); err != nil {
		writeServiceError(c, err, "追踪失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "追踪成功"})
}

// UnfollowUser 取消追踪
func UnfollowUser(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := service.UnfollowUser(uid, targetID); err != nil {
		writeServiceError(c, err, "取消追踪失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消追踪"})
}
