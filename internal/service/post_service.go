package service

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const summaryMaxRunes = 200

var (
	// ErrPostNotFound 文章不存在
	ErrPostNotFound = errors.New("文章不存在")
	// ErrNotPostAuthor 不是文章作者
	ErrNotPostAuthor = errors.New("没有权限操作该文章")
	// ErrPostNotVisible 无权查看该文章
	ErrPostNotVisible = errors.New("无权查看该文章")
	// ErrEmptyContent 文章内容为空, 不能发布
	ErrEmptyContent = errors.New("文章内容为空, 无法发布")
)

// CreateDraft 建立一篇空白草稿
func CreateDraft(authorID uint, title string) (*model.Post, error) {
	post := model.Post{
		Title:      title,
		Status:     model.PostStatusDraft,
		Visibility: model.VisibilityPublic,
		AuthorID:   authorID,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// getOwnedPost 查询文章并校验作者身份
func getOwnedPost(userID, postID uint) (*model.Post, error) {
	var post model.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotPostAuthor
	}
	return &post, nil
}

// UpdatePost 更新文章标题、内容和可见性
// content 是前端编辑器输出的 ProseMirror JSON, 原样保存
func UpdatePost(userID, postID uint, title, content, visibility string) (*model.Post, error) {
	post, err := getOwnedPost(userID, postID)
	if err != nil {
		return nil, err
	}

	switch visibility {
	case model.VisibilityPublic, model.VisibilityPrivate,
		model.VisibilityFollowers, model.VisibilityMembers:
	case "":
		visibility = post.Visibility
	default:
		return nil, errors.New("无效的可见性设定")
	}

	post.Title = title
	post.Content = content
	post.Visibility = visibility
	if err := db.DB.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// PublishPost 发布文章
// 发布时从 ProseMirror 内容提取摘要和缩图, 并产生唯一 slug
// tags 为 nil 时保留原有标签, 非 nil 时整组替换; visibility 为空时保留原设定
func PublishPost(userID, postID uint, tags []string, visibility string) (*model.Post, error) {
	post, err := getOwnedPost(userID, postID)
	if err != nil {
		return nil, err
	}

	plain := utils.ExtractPlainText(post.Content)
	if strings.TrimSpace(plain) == "" {
		return nil, ErrEmptyContent
	}

	switch visibility {
	case model.VisibilityPublic, model.VisibilityPrivate,
		model.VisibilityFollowers, model.VisibilityMembers:
		post.Visibility = visibility
	case "":
	default:
		return nil, errors.New("无效的可见性设定")
	}

	runes := []rune(plain)
	if len(runes) > summaryMaxRunes {
		runes = runes[:summaryMaxRunes]
	}
	post.Summary = string(runes)
	post.ThumbnailURL = utils.ExtractFirstImageURL(post.Content)

	if post.Slug == "" {
		post.Slug = uuid.New().String()
	}
	post.Status = model.PostStatusPublished

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if tags != nil {
			if err := replacePostTags(tx, post, tags); err != nil {
				return err
			}
		}
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// slugifyTag 生成标签 slug, 保留 unicode 字母和数字
func slugifyTag(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// getOrCreateTag 按 slug 查询或建立标签
// 同 slug 但名称不同时以新名称为准
func getOrCreateTag(tx *gorm.DB, name string) (*model.Tag, error) {
	slug := slugifyTag(name)
	var tag model.Tag
	if err := tx.Where(model.Tag{Slug: slug}).
		Attrs(model.Tag{Name: name}).
		FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}
	if tag.Name != name {
		tag.Name = name
		if err := tx.Save(&tag).Error; err != nil {
			return nil, err
		}
	}
	return &tag, nil
}

// replacePostTags 清除文章原有标签并换成给定的标签组
func replacePostTags(tx *gorm.DB, post *model.Post, names []string) error {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag, err := getOrCreateTag(tx, name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return tx.Model(post).Association("Tags").Replace(tags)
}

// canViewPost 可见性规则
// public 所有人; private 只限作者; followers 作者和追踪者; members 任何登录会员
func canViewPost(post *model.Post, viewerID *uint) (bool, error) {
	if viewerID != nil && *viewerID == post.AuthorID {
		return true, nil
	}
	// 草稿只有作者可见
	if post.Status != model.PostStatusPublished {
		return false, nil
	}

	switch post.Visibility {
	case model.VisibilityPublic:
		return true, nil
	case model.VisibilityPrivate:
		return false, nil
	case model.VisibilityMembers:
		return viewerID != nil, nil
	case model.VisibilityFollowers:
		if viewerID == nil {
			return false, nil
		}
		return IsFollowing(*viewerID, post.AuthorID)
	default:
		return false, nil
	}
}

// GetPostDetail 查询文章详情, viewerID 为 nil 表示未登录访客
// 有权查看时浏览数加一
func GetPostDetail(postID uint, viewerID *uint) (*model.Post, error) {
	var post model.Post
	if err := db.DB.Preload("Tags").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	ok, err := canViewPost(&post, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotVisible
	}

	if err := db.DB.Model(&post).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		log.Printf("⚠️ 更新浏览数失败: %v\n", err)
	}
	return &post, nil
}

// ListHomepagePosts 首页文章列表, 只含公开已发布的文章, 最新优先
func ListHomepagePosts(page, pageSize int) ([]model.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	query := db.DB.Model(&model.Post{}).
		Where("status = ? AND visibility = ?", model.PostStatusPublished, model.VisibilityPublic)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

// ListHighlightPosts 精选文章, 按浏览数排序
func ListHighlightPosts(limit int) ([]model.Post, error) {
	if limit < 1 || limit > 20 {
		limit = 5
	}
	var posts []model.Post
	err := db.DB.Where("status = ? AND visibility = ?",
		model.PostStatusPublished, model.VisibilityPublic).
		Order("views_count DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// DeletePost 删除文章及其附件, 并归还占用的存储空间
func DeletePost(userID, postID uint) error {
	post, err := getOwnedPost(userID, postID)
	if err != nil {
		return err
	}

	var images []model.PostImage
	if err := db.DB.Where("post_id = ?", postID).Find(&images).Error; err != nil {
		return err
	}
	var videos []model.PostVideo
	if err := db.DB.Where("post_id = ?", postID).Find(&videos).Error; err != nil {
		return err
	}

	var totalSize int64
	var pathsToDelete []string
	uploadRoot := config.Get().Upload.Path
	for _, img := range images {
		totalSize += img.Size
		pathsToDelete = append(pathsToDelete, filepath.Join(uploadRoot, img.Path))
	}
	for _, vid := range videos {
		totalSize += vid.Size
		pathsToDelete = append(pathsToDelete, filepath.Join(uploadRoot, vid.Path))
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(post).Error; err != nil {
			return err
		}
		if totalSize > 0 {
			// 归还文章附件占用的空间
			if err := tx.Model(&model.StorageAccount{}).
				Where("user_id = ?", userID).
				UpdateColumn("used_bytes", gorm.Expr("used_bytes - ?", totalSize)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 事务提交后再清理物理文件
	for _, path := range pathsToDelete {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ 删除文章附件文件失败: %v, path: %s\n", err, path)
		}
	}
	return nil
}

// TogglePostLike 文章点赞开关, 返回操作后是否为点赞状态
func TogglePostLike(userID, postID uint) (bool, error) {
	var post model.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}

	res := db.DB.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostLike{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	if err := db.DB.Create(&model.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ToggleBookmark 收藏开关, 返回操作后是否为收藏状态
func ToggleBookmark(userID, postID uint) (bool, error) {
	var post model.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}

	res := db.DB.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	if err := db.DB.Create(&model.Bookmark{UserID: userID, PostID: postID}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// PostLikesCount 文章点赞数
func PostLikesCount(postID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&model.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
