package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailExists 注册邮箱已被占用
	ErrEmailExists = errors.New("使用者 email 已存在")
	// ErrInvalidCredentials 帐号或密码错误
	ErrInvalidCredentials = errors.New("帐号或密码错误")
	// ErrEmailNotVerified 邮箱尚未验证
	ErrEmailNotVerified = errors.New("请先验证邮箱后再登录")
	// ErrUserBanned 帐号被封禁
	ErrUserBanned = errors.New("帐号已被封禁")
	// ErrUserNotFound 找不到使用者
	ErrUserNotFound = errors.New("找不到使用者")
)

// TokenPair 登录成功后发放的两个 token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterUser 注册新用户
// 用户和存储账户在同一个事务里建立, 保证每个用户都有账本
func RegisterUser(email, password string) (*model.User, error) {
	var count int64
	if err := db.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:    email,
		Password: string(hashed),
		Status:   1,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// 账户建立钩子: 新用户默认免费方案
		return CreateStorageAccountTx(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ 储存空间建立OK: %s", user.Email)
	return &user, nil
}

// SendRegisterVerification 生成验证 token 并寄出验证邮件
// 邮件发送失败不阻断注册, 只记录日志
func SendRegisterVerification(user *model.User) {
	token, err := utils.GenerateEmailToken(user.ID, user.Email)
	if err != nil {
		log.Printf("⚠️ 生成邮箱验证 token 失败: %v", err)
		return
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", config.Get().Server.BaseURL, token)
	if err := SendVerificationEmail(user.Email, verifyURL); err != nil {
		log.Printf("⚠️ 发送验证邮件失败: %v", err)
		return
	}
	log.Println("发送验证信成功")
}

// LoginUser 校验邮箱密码, 成功时发放 access + refresh token
func LoginUser(email, password string) (*model.User, *TokenPair, error) {
	var user model.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status == 2 {
		return nil, nil, ErrUserBanned
	}
	if config.Get().Auth.BlockUnverified && !user.EmailVerified {
		return nil, nil, ErrEmailNotVerified
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}

	log.Println("登录成功")
	return &user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken 用 refresh token 换发新的 access token
func RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	// 确认使用者还存在
	var user model.User
	if err := db.DB.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return utils.GenerateAccessToken(user.ID, user.Email)
}

// VerifyEmail 校验邮箱验证 token 并激活帐号
func VerifyEmail(token string) error {
	claims, err := utils.ParseEmailToken(token)
	if err != nil {
		return err
	}

	var user model.User
	if err := db.DB.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.EmailVerified = true
	return db.DB.Save(&user).Error
}
