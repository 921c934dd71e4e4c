package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"
	"github.com/yiyuan-9527/YiyuanBlog/internal/testutils"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证配额耗尽时图片上传接口返回 413, 且不留下任何记录和用量。
func TestUploadPostImageHandler_QuotaExceeded413(t *testing.T) {
	t.Setenv("YIYUAN_BLOG_UPLOAD_PATH", t.TempDir())
	setupHandlerTest(t)
	user := createHandlerUser(t)

	post, err := service.CreateDraft(user.ID, "配额测试")
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	r := gin.New()
	r.POST("/posts/:id/images/upload", authAs(user), UploadPostImage)

	url := fmt.Sprintf("/posts/%d/images/upload", post.ID)

	// 先在正常额度下上传一次, 确认 200
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUploadRequest(t, url, "ok.png", testutils.MinimalPNG()))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}

	// 把上限压到比文件还小, 再传必须 413
	setHandlerAccountLimit(t, user.ID, 1)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, multipartUploadRequest(t, url, "full.png", testutils.MinimalPNG()))
	if w2.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413，实际为 %d body=%s", w2.Code, w2.Body.String())
	}

	var imageCount int64
	if err := db.DB.Model(&model.PostImage{}).Where("post_id = ?", post.ID).Count(&imageCount).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if imageCount != 1 {
		t.Fatalf("期望只有第一张图片的记录，实际为 %d 条", imageCount)
	}

	var account model.StorageAccount
	if err := db.DB.Where("user_id = ?", user.ID).First(&account).Error; err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.UsedBytes != int64(len(testutils.MinimalPNG())) {
		t.Fatalf("期望用量只含第一张图片，实际为 %d", account.UsedBytes)
	}
}

// 测试内容：验证非作者对别人的文章上传图片时返回 403。
func TestUploadPostImageHandler_NotAuthor(t *testing.T) {
	t.Setenv("YIYUAN_BLOG_UPLOAD_PATH", t.TempDir())
	setupHandlerTest(t)
	author := createHandlerUser(t)
	other := createHandlerUser(t)

	post, err := service.CreateDraft(author.ID, "别人的文章")
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	r := gin.New()
	r.POST("/posts/:id/images/upload", authAs(other), UploadPostImage)

	url := fmt.Sprintf("/posts/%d/images/upload", post.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUploadRequest(t, url, "a.png", testutils.MinimalPNG()))
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际为 %d body=%s", w.Code, w.Body.String())
	}
}

// 测试内容：验证内容验证失败的上传返回 400 而不是 500。
func TestUploadPostImageHandler_BadContent(t *testing.T) {
	t.Setenv("YIYUAN_BLOG_UPLOAD_PATH", t.TempDir())
	setupHandlerTest(t)
	user := createHandlerUser(t)

	post, err := service.CreateDraft(user.ID, "假图片")
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	r := gin.New()
	r.POST("/posts/:id/images/upload", authAs(user), UploadPostImage)

	url := fmt.Sprintf("/posts/%d/images/upload", post.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUploadRequest(t, url, "fake.png", []byte("not a png at all")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d body=%s", w.Code, w.Body.String())
	}
}
