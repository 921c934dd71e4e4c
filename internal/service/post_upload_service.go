package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/utils"

	"github.com/google/uuid"
)

// ValidateImageFile 验证上传的图片文件（大小、后缀、内容）
// 返回:
//   - bool: 是否合法
//   - string: 文件扩展名 (小写, 如 .jpg)
//   - error: 错误信息或原因
func ValidateImageFile(file *multipart.FileHeader) (bool, string, error) {
	maxSizeMB := config.Get().Upload.MaxImageSizeMB
	if file.Size > int64(maxSizeMB)*1024*1024 {
		return false, "", fmt.Errorf("图片大小不能超过 %dMB", maxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return false, "", errors.New("无法识别文件类型")
	}

	src, err := file.Open()
	if err != nil {
		return false, ext, errors.New("无法打开上传的文件")
	}
	defer func() { _ = src.Close() }()

	if valid, msg := utils.ValidateImageContent(src, ext); !valid {
		return false, ext, errors.New(msg)
	}
	return true, ext, nil
}

// ValidateVideoFile 验证上传的影片文件, 只支持 mp4
func ValidateVideoFile(file *multipart.FileHeader) (bool, string, error) {
	maxSizeMB := config.Get().Upload.MaxVideoSizeMB
	if file.Size > int64(maxSizeMB)*1024*1024 {
		return false, "", fmt.Errorf("影片大小不能超过 %dMB", maxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return false, "", errors.New("无法识别文件类型")
	}

	src, err := file.Open()
	if err != nil {
		return false, ext, errors.New("无法打开上传的文件")
	}
	defer func() { _ = src.Close() }()

	if valid, msg := utils.ValidateVideoContent(src, ext); !valid {
		return false, ext, errors.New(msg)
	}
	return true, ext, nil
}

// saveUploadedFile 把上传文件写入 uploadRoot 下的 subDir, 返回相对路径和文件名
// subDir 形如 user_3/post_images, 实际落盘路径还会加上年月子目录
func saveUploadedFile(file *multipart.FileHeader, subDir, ext string) (string, string, error) {
	now := time.Now()
	datePath := filepath.Join(now.Format("2006"), now.Format("01"))

	uploadRoot := config.Get().Upload.Path
	if uploadRoot == "" {
		uploadRoot = "uploads"
	}
	fullDir := filepath.Join(uploadRoot, subDir, datePath)
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		log.Printf("❌ MkdirAll error: %v\n", err)
		return "", "", errors.New("系统错误: 无法创建存储目录")
	}

	newFilename := uuid.New().String() + ext
	dst := filepath.Join(fullDir, newFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", errors.New("无法读取上传文件")
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return "", "", errors.New("系统错误: 无法创建文件")
	}
	defer func() { _ = out.Close() }()

	if _, err = io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", "", errors.New("文件保存失败")
	}

	relativePath := filepath.ToSlash(filepath.Join(subDir, datePath, newFilename))
	return relativePath, newFilename, nil
}

// removeUploadedFile 按相对路径删除物理文件
func removeUploadedFile(relativePath string) {
	uploadRoot := config.Get().Upload.Path
	if uploadRoot == "" {
		uploadRoot = "uploads"
	}
	fullPath := filepath.Join(uploadRoot, relativePath)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ 删除文件失败: %v, path: %s\n", err, fullPath)
	}
}

// ProcessPostImageUpload 处理文章图片上传
// 流程: 验证 -> 原子预留配额 -> 落盘 -> 建记录; 任一步失败则回退前面的步骤
func ProcessPostImageUpload(file *multipart.FileHeader, userID, postID uint) (*model.PostImage, string, error) {
	if _, err := getOwnedPost(userID, postID); err != nil {
		return nil, "", err
	}

	valid, ext, err := ValidateImageFile(file)
	if !valid {
		return nil, "", err
	}

	// 先预留配额, 并发上传也不会超限
	if err := ReserveStorage(userID, file.Size); err != nil {
		return nil, "", err
	}

	subDir := filepath.Join(fmt.Sprintf("user_%d", userID), "post_images")
	relativePath, newFilename, err := saveUploadedFile(file, subDir, ext)
	if err != nil {
		releaseReservation(userID, file.Size)
		return nil, "", err
	}

	record := model.PostImage{
		PostID:     postID,
		Filename:   newFilename,
		Path:       relativePath,
		Size:       file.Size,
		UploadedAt: time.Now().Unix(),
	}
	if err := db.DB.Create(&record).Error; err != nil {
		removeUploadedFile(relativePath)
		releaseReservation(userID, file.Size)
		log.Printf("❌ 图片记录写入失败: %v\n", err)
		return nil, "", errors.New("系统错误: 数据库记录失败")
	}

	return &record, config.Get().Upload.URLPrefix + relativePath, nil
}

// ProcessPostVideoUpload 处理文章影片上传
func ProcessPostVideoUpload(file *multipart.FileHeader, userID, postID uint) (*model.PostVideo, string, error) {
	if _, err := getOwnedPost(userID, postID); err != nil {
		return nil, "", err
	}

	valid, ext, err := ValidateVideoFile(file)
	if !valid {
		return nil, "", err
	}

	if err := ReserveStorage(userID, file.Size); err != nil {
		return nil, "", err
	}

	subDir := filepath.Join(fmt.Sprintf("user_%d", userID), "post_videos")
	relativePath, newFilename, err := saveUploadedFile(file, subDir, ext)
	if err != nil {
		releaseReservation(userID, file.Size)
		return nil, "", err
	}

	record := model.PostVideo{
		PostID:     postID,
		Filename:   newFilename,
		Path:       relativePath,
		Size:       file.Size,
		UploadedAt: time.Now().Unix(),
	}
	if err := db.DB.Create(&record).Error; err != nil {
		removeUploadedFile(relativePath)
		releaseReservation(userID, file.Size)
		log.Printf("❌ 影片记录写入失败: %v\n", err)
		return nil, "", errors.New("系统错误: 数据库记录失败")
	}

	return &record, config.Get().Upload.URLPrefix + relativePath, nil
}

// DeletePostImage 删除单张文章图片并归还空间
func DeletePostImage(userID, imageID uint) error {
	var img model.PostImage
	if err := db.DB.First(&img, imageID).Error; err != nil {
		return err
	}
	if _, err := getOwnedPost(userID, img.PostID); err != nil {
		return err
	}

	if err := db.DB.Delete(&img).Error; err != nil {
		return err
	}
	if err := RemoveUsage(userID, img.Size); err != nil {
		log.Printf("⚠️ 归还存储空间失败: uid=%d, size=%d, err=%v\n", userID, img.Size, err)
	}
	removeUploadedFile(img.Path)
	return nil
}
