package handler

import (
	"net/http"
	"strconv"

	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

func postToJSON(p *model.Post) gin.H {
	return gin.H{
		"id":            p.ID,
		"title":         p.Title,
		"slug":          p.Slug,
		"content":       p.Content,
		"summary":       p.Summary,
		"thumbnail_url": p.ThumbnailURL,
		"status":        p.Status,
		"visibility":    p.Visibility,
		"views_count":   p.ViewsCount,
		"author_id":     p.AuthorID,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
}

// CreatePost 建立草稿
func CreatePost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	post, err := service.CreateDraft(uid, req.Title)
	if err != nil {
		writeServiceError(c, err, "建立草稿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "草稿已建立", "id": post.ID})
}

// UpdatePost 保存文章内容
func UpdatePost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Visibility string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	post, err := service.UpdatePost(uid, postID, req.Title, req.Content, req.Visibility)
	if err != nil {
		writeServiceError(c, err, "保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已保存", "post": postToJSON(post)})
}

// PublishPost 发布文章
func PublishPost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	// 标签和可见性都是可选的, 没有请求体时直接发布
	var req struct {
		Tags       []string `json:"tags"`
		Visibility string   `json:"visibility"`
	}
	_ = c.ShouldBindJSON(&req)

	post, err := service.PublishPost(uid, postID, req.Tags, req.Visibility)
	if err != nil {
		writeServiceError(c, err, "发布失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "发布成功", "post": postToJSON(post)})
}

// DeletePost 删除文章
func DeletePost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := service.DeletePost(uid, postID); err != nil {
		writeServiceError(c, err, "删除失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

// GetPostDetail 文章详情, 访客也可访问, 可见性由 service 层判定
func GetPostDetail(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	post, err := service.GetPostDetail(postID, optionalUserID(c))
	if err != nil {
		writeServiceError(c, err, "查询文章失败")
		return
	}

	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Name)
	}
	body := postToJSON(post)
	body["tags"] = tags

	if author, err := service.GetUserByID(post.AuthorID); err == nil {
		body["author"] = gin.H{
			"id":       author.ID,
			"username": author.Username,
			"avatar":   author.Avatar,
		}
	}
	if followers, err := service.FollowersCount(post.AuthorID); err == nil {
		body["followers"] = followers
	}
	if likes, err := service.PostLikesCount(post.ID); err == nil {
		body["like_count"] = likes
	}

	c.JSON(http.StatusOK, gin.H{"post": body})
}

// GetHomepagePosts 首页文章列表
func GetHomepagePosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	posts, total, err := service.ListHomepagePosts(page, pageSize)
	if err != nil {
		writeServiceError(c, err, "查询首页失败")
		return
	}

	list := make([]gin.H, 0, len(posts))
	for i := range posts {
		list = append(list, postToJSON(&posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"posts": list,
		"total": total,
		"page":  page,
	})
}

// GetHighlightPosts 精选文章
func GetHighlightPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	posts, err := service.ListHighlightPosts(limit)
	if err != nil {
		writeServiceError(c, err, "查询精选失败")
		return
	}
	list := make([]gin.H, 0, len(posts))
	for i := range posts {
		list = append(list, postToJSON(&posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

// TogglePostLike 点赞开关
func TogglePostLike(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	liked, err := service.TogglePostLike(uid, postID)
	if err != nil {
		writeServiceError(c, err, "操作失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// ToggleBookmark 收藏开关
func ToggleBookmark(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	marked, err := service.ToggleBookmark(uid, postID)
	if err != nil {
		writeServiceError(c, err, "操作失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": marked})
}

// UploadPostImage 上传文章图片
func UploadPostImage(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	record, url, err := service.ProcessPostImageUpload(file, uid, postID)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "上传成功",
		"id":      record.ID,
		"url":     url,
	})
}

// UploadPostVideo 上传文章影片
func UploadPostVideo(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	record, url, err := service.ProcessPostVideoUpload(file, uid, postID)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "上传成功",
		"id":      record.ID,
		"url":     url,
	})
}

// DeletePostImage 删除单张文章图片
func DeletePostImage(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := paramUint(c, "image_id")
	if !ok {
		return
	}

	if err := service.DeletePostImage(uid, imageID); err != nil {
		writeServiceError(c, err, "删除失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}
