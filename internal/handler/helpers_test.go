package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"
	"github.com/yiyuan-9527/YiyuanBlog/internal/testutils"

	"github.com/gin-gonic/gin"
)

func setupHandlerTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutils.SetupConfig(t)
	testutils.SetupDB(t)
}

var handlerUserSeq int

// createHandlerUser 直接造一个已验证的用户和对应的存储账户
func createHandlerUser(t *testing.T) *model.User {
	t.Helper()
	handlerUserSeq++
	user := model.User{
		Username:      fmt.Sprintf("handler用户%d", handlerUserSeq),
		Email:         fmt.Sprintf("handler%d@example.com", handlerUserSeq),
		Password:      "x",
		Status:        1,
		EmailVerified: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := service.CreateStorageAccountTx(db.DB, user.ID); err != nil {
		t.Fatalf("create storage account: %v", err)
	}
	return &user
}

// authAs 模拟 JWT 中间件写入上下文的结果
func authAs(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("id", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}

func setHandlerAccountLimit(t *testing.T, userID uint, limitBytes int64) {
	t.Helper()
	err := db.DB.Model(&model.StorageAccount{}).
		Where("user_id = ?", userID).
		Update("limit_bytes", limitBytes).Error
	if err != nil {
		t.Fatalf("set limit: %v", err)
	}
}

// multipartUploadRequest 组一个单文件的 multipart 上传请求
func multipartUploadRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
