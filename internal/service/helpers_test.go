package service

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/testutils"
)

// setupServiceTest 初始化配置和独立的内存数据库
func setupServiceTest(t *testing.T) {
	t.Helper()
	testutils.SetupConfig(t)
	testutils.SetupDB(t)
}

// setupUploadTest 同上, 但把上传目录指到测试临时目录
func setupUploadTest(t *testing.T) {
	t.Helper()
	t.Setenv("YIYUAN_BLOG_UPLOAD_PATH", t.TempDir())
	setupServiceTest(t)
}

func mustFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("写入分段失败: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("关闭 writer 失败: %v", err)
	}

	req := httptest.NewRequest("POST", "http://example/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(int64(len(content)) + 1024); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}

	fhs := req.MultipartForm.File["file"]
	if len(fhs) != 1 {
		t.Fatalf("期望 1 file header，实际为 %d", len(fhs))
	}
	return fhs[0]
}

var testUserSeq int

// createTestUser 直接建立用户和存储账户, 跳过注册流程
func createTestUser(t *testing.T) *model.User {
	t.Helper()
	testUserSeq++
	user := model.User{
		Username: fmt.Sprintf("user%d", testUserSeq),
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Password: "not-a-real-hash",
		Status:   1,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := CreateStorageAccountTx(db.DB, user.ID); err != nil {
		t.Fatalf("create storage account: %v", err)
	}
	return &user
}

// setAccountLimit 把账户上限调小, 方便测试边界
func setAccountLimit(t *testing.T, userID uint, limitBytes int64) {
	t.Helper()
	err := db.DB.Model(&model.StorageAccount{}).
		Where("user_id = ?", userID).
		Update("limit_bytes", limitBytes).Error
	if err != nil {
		t.Fatalf("set limit: %v", err)
	}
}

func mustFirstComment(dst *model.Comment, id uint) error {
	return db.DB.First(dst, id).Error
}

func dbCountTags(dst *int64) error {
	return db.DB.Model(&model.Tag{}).Count(dst).Error
}

// dbUpdateStatus 直接改用户状态 (1 正常 / 2 封禁)
func dbUpdateStatus(userID uint, status int) error {
	return db.DB.Model(&model.User{}).Where("id = ?", userID).Update("status", status).Error
}

func mustGetAccount(t *testing.T, userID uint) *model.StorageAccount {
	t.Helper()
	account, err := GetStorageAccount(userID)
	if err != nil {
		t.Fatalf("get storage account: %v", err)
	}
	return account
}
