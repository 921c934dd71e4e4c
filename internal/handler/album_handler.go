package handler

import (
	"net/http"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAlbum 建立相簿
func CreateAlbum(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	album, err := service.CreateAlbum(uid, req.Name)
	if err != nil {
		writeServiceError(c, err, "建立相簿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "相簿已建立", "id": album.ID, "name": album.Name})
}

// RenameAlbum 重命名相簿
func RenameAlbum(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	album, err := service.RenameAlbum(uid, albumID, req.Name)
	if err != nil {
		writeServiceError(c, err, "重命名失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已重命名", "name": album.Name})
}

// GetMyAlbums 列出自己的相簿
func GetMyAlbums(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	albums, err := service.ListAlbums(uid)
	if err != nil {
		writeServiceError(c, err, "查询相簿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"albums": albums})
}

// GetAlbumImages 列出相簿内的图片
func GetAlbumImages(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	images, err := service.ListAlbumImages(uid, albumID)
	if err != nil {
		writeServiceError(c, err, "查询图片失败")
		return
	}

	urlPrefix := config.Get().Upload.URLPrefix
	list := make([]gin.H, 0, len(images))
	for _, img := range images {
		list = append(list, gin.H{
			"id":       img.ID,
			"filename": img.Filename,
			"url":      urlPrefix + img.Path,
			"size":     img.Size,
			"is_cover": img.IsCover,
		})
	}
	c.JSON(http.StatusOK, gin.H{"images": list})
}

// BatchUploadAlbumImages 批量上传相簿图片
func BatchUploadAlbumImages(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	records, err := service.BatchUploadAlbumImages(files, uid, albumID)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	urlPrefix := config.Get().Upload.URLPrefix
	list := make([]gin.H, 0, len(records))
	for _, r := range records {
		list = append(list, gin.H{"id": r.ID, "url": urlPrefix + r.Path})
	}
	c.JSON(http.StatusOK, gin.H{"message": "上传成功", "images": list})
}

// BatchDeleteAlbumImages 批量删除相簿图片
func BatchDeleteAlbumImages(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req struct {
		ImageIDs []uint `json:"image_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := service.BatchDeleteAlbumImages(uid, albumID, req.ImageIDs); err != nil {
		writeServiceError(c, err, "删除失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

// DeleteAlbum 删除相簿
func DeleteAlbum(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := service.DeleteAlbum(uid, albumID); err != nil {
		writeServiceError(c, err, "删除相簿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "相簿已删除"})
}
