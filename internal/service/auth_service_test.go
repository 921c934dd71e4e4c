package service

import (
	"errors"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/utils"
)

func TestRegisterUser_CreatesStorageAccount(t *testing.T) {
	setupServiceTest(t)

	user, err := RegisterUser("new@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// 注册必须同时带出免费方案的存储账户
	account := mustGetAccount(t, user.ID)
	if account.PlanID != model.PlanFree {
		t.Fatalf("expected FREE plan, got %s", account.PlanID)
	}
	if account.LimitBytes != 50*GiB || account.UsedBytes != 0 {
		t.Fatalf("expected fresh 50GiB account, got used=%d limit=%d",
			account.UsedBytes, account.LimitBytes)
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	setupServiceTest(t)

	if _, err := RegisterUser("dup@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := RegisterUser("dup@example.com", "Other123!"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

// markVerified 直接把用户标成已验证, 跳过邮件流程
func markVerified(t *testing.T, userID uint) {
	t.Helper()
	if err := db.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("email_verified", true).Error; err != nil {
		t.Fatalf("mark verified: %v", err)
	}
}

func TestLoginUser_Success(t *testing.T) {
	setupServiceTest(t)

	registered, err := RegisterUser("login@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	markVerified(t, registered.ID)

	user, tokens, err := LoginUser("login@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}

	claims, err := utils.ParseAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := utils.ParseRefreshToken(tokens.RefreshToken); err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
}

func TestLoginUser_UnverifiedBlocked(t *testing.T) {
	setupServiceTest(t)

	if _, err := RegisterUser("pending@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 默认配置要求先验证邮箱
	if _, _, err := LoginUser("pending@example.com", "Passw0rd!"); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
}

func TestLoginUser_WrongPassword(t *testing.T) {
	setupServiceTest(t)

	if _, err := RegisterUser("wrong@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := LoginUser("wrong@example.com", "bad-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// 不存在的帐号和密码错误返回同一个错误, 不泄漏帐号是否存在
	if _, _, err := LoginUser("nobody@example.com", "Passw0rd!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUser_Banned(t *testing.T) {
	setupServiceTest(t)

	user, err := RegisterUser("banned@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := dbUpdateStatus(user.ID, 2); err != nil {
		t.Fatalf("ban user: %v", err)
	}

	if _, _, err := LoginUser("banned@example.com", "Passw0rd!"); !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	setupServiceTest(t)

	user, err := RegisterUser("refresh@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}

	accessToken, err := RefreshAccessToken(refreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := utils.ParseAccessToken(accessToken)
	if err != nil {
		t.Fatalf("parse refreshed access token: %v", err)
	}
	if claims.ID != user.ID {
		t.Fatalf("expected uid %d, got %d", user.ID, claims.ID)
	}

	// access token 不能当 refresh token 用
	if _, err := RefreshAccessToken(accessToken); err == nil {
		t.Fatal("expected access token to be rejected as refresh token")
	}
}

func TestVerifyEmail(t *testing.T) {
	setupServiceTest(t)

	user, err := RegisterUser("verify@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.EmailVerified {
		t.Fatal("expected new user to be unverified")
	}

	token, err := utils.GenerateEmailToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate email token: %v", err)
	}
	if err := VerifyEmail(token); err != nil {
		t.Fatalf("verify: %v", err)
	}

	fresh, err := GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !fresh.EmailVerified {
		t.Fatal("expected user to be verified")
	}
}
