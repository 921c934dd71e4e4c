package service

import (
	"errors"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrSelfFollow 不能追踪自己
	ErrSelfFollow = errors.New("不能追踪自己")
	// ErrAlreadyFollowing 已经追踪过了
	ErrAlreadyFollowing = errors.New("已经追踪该使用者了")
	// ErrNotFollowing 尚未追踪
	ErrNotFollowing = errors.New("尚未追踪该使用者")
)

// GetUserByID 按 ID 查询使用者
func GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := db.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新个人资料(用户名和简介)
func UpdateProfile(userID uint, username, bio string) (*model.User, error) {
	user, err := GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Bio = bio
	if err := db.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FollowUser follower 追踪 following
func FollowUser(followerID, followingID uint) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	if _, err := GetUserByID(followingID); err != nil {
		return err
	}

	var count int64
	if err := db.DB.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyFollowing
	}

	return db.DB.Create(&model.Follow{FollowerID: followerID, FollowingID: followingID}).Error
}

// UnfollowUser 取消追踪
func UnfollowUser(followerID, followingID uint) error {
	res := db.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// FollowersCount 追踪者数量
func FollowersCount(userID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// IsFollowing follower 是否追踪了 following
func IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := db.DB.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}
