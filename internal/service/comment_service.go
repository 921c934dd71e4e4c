package service

import (
	"errors"
	"log"
	"strings"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrCommentNotFound 留言不存在
	ErrCommentNotFound = errors.New("留言不存在")
	// ErrNotCommentAuthor 不是留言作者
	ErrNotCommentAuthor = errors.New("没有权限操作该留言")
	// ErrEmptyComment 留言内容为空
	ErrEmptyComment = errors.New("留言内容不能为空")
	// ErrParentMismatch 回复的父留言不属于该文章
	ErrParentMismatch = errors.New("父留言不属于该文章")
)

// CreateComment 新增留言, parentID 非空表示巢状回复
// 只能对自己有权查看的文章留言
func CreateComment(userID, postID uint, content string, parentID *uint) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	var post model.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	ok, err := canViewPost(&post, &userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotVisible
	}

	if parentID != nil {
		var parent model.Comment
		if err := db.DB.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}
	}

	comment := model.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
		ParentID: parentID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment 编辑留言内容, 只限作者本人
func UpdateComment(userID, commentID uint, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	var comment model.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, ErrNotCommentAuthor
	}

	comment.Content = content
	if err := db.DB.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments 列出文章的留言, 含巢状回复, 旧的在前
func ListComments(postID uint, viewerID *uint) ([]model.Comment, error) {
	var post model.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
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

	var comments []model.Comment
	err = db.DB.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// DeleteComment 删除留言, 巢状回复一并删除
func DeleteComment(userID, commentID uint) error {
	var comment model.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != userID {
		return ErrNotCommentAuthor
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", commentID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", commentID).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// ToggleCommentLike 留言点赞开关, 返回操作后是否为点赞状态
// likes_count 冗余计数随点赞记录同步增减
func ToggleCommentLike(userID, commentID uint) (bool, error) {
	var comment model.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCommentNotFound
		}
		return false, err
	}

	liked := false
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Model(&model.Comment{}).Where("id = ?", commentID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		}

		if err := tx.Create(&model.CommentLike{UserID: userID, CommentID: commentID}).Error; err != nil {
			return err
		}
		liked = true
		return tx.Model(&model.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		log.Printf("❌ 留言点赞操作失败: %v\n", err)
		return false, err
	}
	return liked, nil
}
