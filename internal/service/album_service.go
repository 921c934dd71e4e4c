package service

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrAlbumNotFound 相簿不存在
	ErrAlbumNotFound = errors.New("相簿不存在")
	// ErrNotAlbumAuthor 不是相簿所有者
	ErrNotAlbumAuthor = errors.New("没有权限操作该相簿")
)

// CreateAlbum 建立相簿, name 为空时使用数据库默认名称
func CreateAlbum(authorID uint, name string) (*model.Album, error) {
	album := model.Album{AuthorID: authorID}
	if name != "" {
		album.Name = name
	}
	if err := db.DB.Create(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// getOwnedAlbum 查询相簿并校验所有者
func getOwnedAlbum(userID, albumID uint) (*model.Album, error) {
	var album model.Album
	if err := db.DB.First(&album, albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	if album.AuthorID != userID {
		return nil, ErrNotAlbumAuthor
	}
	return &album, nil
}

// RenameAlbum 重命名相簿
func RenameAlbum(userID, albumID uint, name string) (*model.Album, error) {
	album, err := getOwnedAlbum(userID, albumID)
	if err != nil {
		return nil, err
	}
	album.Name = name
	if err := db.DB.Save(album).Error; err != nil {
		return nil, err
	}
	return album, nil
}

// ListAlbums 列出用户的相簿
func ListAlbums(userID uint) ([]model.Album, error) {
	var albums []model.Album
	err := db.DB.Where("author_id = ?", userID).Order("created_at DESC").Find(&albums).Error
	return albums, err
}

// ListAlbumImages 列出相簿内的图片
func ListAlbumImages(userID, albumID uint) ([]model.AlbumImage, error) {
	if _, err := getOwnedAlbum(userID, albumID); err != nil {
		return nil, err
	}
	var images []model.AlbumImage
	err := db.DB.Where("album_id = ?", albumID).Order("uploaded_at DESC").Find(&images).Error
	return images, err
}

// BatchUploadAlbumImages 批量上传相簿图片
// 整批只做一次配额预留, 任一文件验证失败则整批拒绝
func BatchUploadAlbumImages(files []*multipart.FileHeader, userID, albumID uint) ([]model.AlbumImage, error) {
	if len(files) == 0 {
		return nil, errors.New("没有要上传的文件")
	}
	if _, err := getOwnedAlbum(userID, albumID); err != nil {
		return nil, err
	}

	// 先整批验证, 再统计总大小
	var totalSize int64
	exts := make([]string, len(files))
	for i, file := range files {
		valid, ext, err := ValidateImageFile(file)
		if !valid {
			return nil, fmt.Errorf("第 %d 个文件验证失败: %w", i+1, err)
		}
		exts[i] = ext
		totalSize += file.Size
	}

	// 整批一次预留, 要么全部放行, 要么全部拒绝
	if err := ReserveStorage(userID, totalSize); err != nil {
		return nil, err
	}

	subDir := filepath.Join(fmt.Sprintf("user_%d", userID), "albums")
	var savedPaths []string
	records := make([]model.AlbumImage, 0, len(files))

	rollbackFiles := func() {
		for _, p := range savedPaths {
			removeUploadedFile(p)
		}
	}

	for i, file := range files {
		relativePath, newFilename, err := saveUploadedFile(file, subDir, exts[i])
		if err != nil {
			rollbackFiles()
			releaseReservation(userID, totalSize)
			return nil, err
		}
		savedPaths = append(savedPaths, relativePath)
		records = append(records, model.AlbumImage{
			AlbumID:    albumID,
			Filename:   newFilename,
			Path:       relativePath,
			Size:       file.Size,
			UploadedAt: time.Now().Unix(),
		})
	}

	if err := db.DB.Create(&records).Error; err != nil {
		rollbackFiles()
		releaseReservation(userID, totalSize)
		log.Printf("❌ 相簿图片记录写入失败: %v\n", err)
		return nil, errors.New("系统错误: 数据库记录失败")
	}

	return records, nil
}

// BatchDeleteAlbumImages 批量删除相簿图片并归还空间
func BatchDeleteAlbumImages(userID, albumID uint, imageIDs []uint) error {
	if len(imageIDs) == 0 {
		return nil
	}
	if _, err := getOwnedAlbum(userID, albumID); err != nil {
		return err
	}

	var images []model.AlbumImage
	if err := db.DB.Where("album_id = ? AND id IN ?", albumID, imageIDs).
		Find(&images).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	var totalSize int64
	var pathsToDelete []string
	ids := make([]uint, 0, len(images))
	uploadRoot := config.Get().Upload.Path
	for _, img := range images {
		totalSize += img.Size
		ids = append(ids, img.ID)
		pathsToDelete = append(pathsToDelete, filepath.Join(uploadRoot, img.Path))
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Delete(&model.AlbumImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StorageAccount{}).
			Where("user_id = ?", userID).
			UpdateColumn("used_bytes", gorm.Expr("used_bytes - ?", totalSize)).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 事务提交后再清理物理文件
	for _, path := range pathsToDelete {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ 删除相簿图片文件失败: %v, path: %s\n", err, path)
		}
	}
	return nil
}

// DeleteAlbum 删除相簿及其所有图片
func DeleteAlbum(userID, albumID uint) error {
	album, err := getOwnedAlbum(userID, albumID)
	if err != nil {
		return err
	}

	var images []model.AlbumImage
	if err := db.DB.Where("album_id = ?", albumID).Find(&images).Error; err != nil {
		return err
	}
	if len(images) > 0 {
		ids := make([]uint, 0, len(images))
		for _, img := range images {
			ids = append(ids, img.ID)
		}
		if err := BatchDeleteAlbumImages(userID, albumID, ids); err != nil {
			return err
		}
	}

	return db.DB.Delete(album).Error
}
