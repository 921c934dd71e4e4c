package handler

import (
	"net/http"

	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateComment 对文章留言, parent_id 非空表示回复
func CreateComment(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	comment, err := service.CreateComment(uid, postID, req.Content, req.ParentID)
	if err != nil {
		writeServiceError(c, err, "留言失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "留言成功", "comment": comment})
}

// GetComments 文章留言列表, 访客可见性与文章一致
func GetComments(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	comments, err := service.ListComments(postID, optionalUserID(c))
	if err != nil {
		writeServiceError(c, err, "查询留言失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// UpdateComment 编辑自己的留言
func UpdateComment(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramUint(c, "comment_id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	comment, err := service.UpdateComment(uid, commentID, req.Content)
	if err != nil {
		writeServiceError(c, err, "编辑留言失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已更新", "comment": comment})
}

// DeleteComment 删除自己的留言
func DeleteComment(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramUint(c, "comment_id")
	if !ok {
		return
	}

	if err := service.DeleteComment(uid, commentID); err != nil {
		writeServiceError(c, err, "删除留言失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

// ToggleCommentLike 留言点赞开关
func ToggleCommentLike(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramUint(c, "comment_id")
	if !ok {
		return
	}

	liked, err := service.ToggleCommentLike(uid, commentID)
	if err != nil {
		writeServiceError(c, err, "操作失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
