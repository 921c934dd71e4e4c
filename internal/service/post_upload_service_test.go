package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
	"github.com/yiyuan-9527/YiyuanBlog/internal/testutils"
)

// 测试内容：验证图片文件校验在合法图片时返回通过。
func TestValidateImageFile_OK(t *testing.T) {
	setupUploadTest(t)

	fh := mustFileHeader(t, "a.png", testutils.MinimalPNG())
	ok, ext, err := ValidateImageFile(fh)
	if !ok || err != nil {
		t.Fatalf("期望 ok，实际为 ok=%v ext=%q err=%v", ok, ext, err)
	}
	if ext != ".png" {
		t.Fatalf("期望 .png ext，实际为 %q", ext)
	}
}

// 测试内容：验证伪装成图片的文件会被内容检查拒绝。
func TestValidateImageFile_RejectsFakeContent(t *testing.T) {
	setupUploadTest(t)

	fh := mustFileHeader(t, "a.png", []byte("not an image at all"))
	ok, _, err := ValidateImageFile(fh)
	if ok || err == nil {
		t.Fatalf("期望 failure，实际为 ok=%v err=%v", ok, err)
	}
}

// 测试内容：验证非 mp4 的影片会被拒绝。
func TestValidateVideoFile_OnlyMP4(t *testing.T) {
	setupUploadTest(t)

	fh := mustFileHeader(t, "a.avi", testutils.MinimalMP4())
	if ok, _, err := ValidateVideoFile(fh); ok || err == nil {
		t.Fatalf("期望 .avi 被拒绝，实际为 ok=%v err=%v", ok, err)
	}

	fh = mustFileHeader(t, "a.mp4", testutils.MinimalMP4())
	if ok, _, err := ValidateVideoFile(fh); !ok || err != nil {
		t.Fatalf("期望 .mp4 通过，实际为 ok=%v err=%v", ok, err)
	}
}

// 测试内容：验证图片上传会写入文件、创建记录并占用存储额度。
func TestProcessPostImageUpload_SavesFileAndReservesQuota(t *testing.T) {
	setupUploadTest(t)
	author := createTestUser(t)
	post, err := CreateDraft(author.ID, "上传测试")
	if err != nil {
		t.Fatalf("建立草稿失败: %v", err)
	}

	fh := mustFileHeader(t, "a.png", testutils.MinimalPNG())
	record, url, err := ProcessPostImageUpload(fh, author.ID, post.ID)
	if err != nil {
		t.Fatalf("ProcessPostImageUpload 错误: %v", err)
	}

	if record.PostID != post.ID || record.Size != fh.Size {
		t.Fatalf("非预期记录: %+v", record)
	}
	if !strings.HasSuffix(record.Filename, ".png") {
		t.Fatalf("期望 .png 文件名，实际为 %q", record.Filename)
	}
	if !strings.HasSuffix(url, record.Path) {
		t.Fatalf("URL 与路径不一致: url=%q path=%q", url, record.Path)
	}

	// 文件确实落盘
	fullPath := filepath.Join(config.Get().Upload.Path, record.Path)
	if _, err := os.Stat(fullPath); err != nil {
		t.Fatalf("期望文件存在: %v", err)
	}

	// 额度被占用
	account := mustGetAccount(t, author.ID)
	if account.UsedBytes != fh.Size {
		t.Fatalf("期望 used=%d，实际为 %d", fh.Size, account.UsedBytes)
	}
}

// 测试内容：验证额度不足时上传被拒绝且不留下文件或记录。
func TestProcessPostImageUpload_QuotaExceeded(t *testing.T) {
	setupUploadTest(t)
	author := createTestUser(t)
	post, err := CreateDraft(author.ID, "满额测试")
	if err != nil {
		t.Fatalf("建立草稿失败: %v", err)
	}
	setAccountLimit(t, author.ID, 10) // 比任何 PNG 都小

	fh := mustFileHeader(t, "a.png", testutils.MinimalPNG())
	if _, _, err := ProcessPostImageUpload(fh, author.ID, post.ID); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("期望 ErrQuotaExceeded，实际为 %v", err)
	}

	var count int64
	if err := db.DB.Model(&model.PostImage{}).Count(&count).Error; err != nil {
		t.Fatalf("统计记录失败: %v", err)
	}
	if count != 0 {
		t.Fatalf("期望没有图片记录，实际为 %d", count)
	}
	account := mustGetAccount(t, author.ID)
	if account.UsedBytes != 0 {
		t.Fatalf("期望 used=0，实际为 %d", account.UsedBytes)
	}
}

// 测试内容：验证不能往别人的文章上传附件。
func TestProcessPostImageUpload_NotAuthor(t *testing.T) {
	setupUploadTest(t)
	author := createTestUser(t)
	other := createTestUser(t)
	post, err := CreateDraft(author.ID, "别人的文章")
	if err != nil {
		t.Fatalf("建立草稿失败: %v", err)
	}

	fh := mustFileHeader(t, "a.png", testutils.MinimalPNG())
	if _, _, err := ProcessPostImageUpload(fh, other.ID, post.ID); !errors.Is(err, ErrNotPostAuthor) {
		t.Fatalf("期望 ErrNotPostAuthor，实际为 %v", err)
	}
}

// 测试内容：验证影片上传与额度占用。
func TestProcessPostVideoUpload(t *testing.T) {
	setupUploadTest(t)
	author := createTestUser(t)
	post, err := CreateDraft(author.ID, "影片测试")
	if err != nil {
		t.Fatalf("建立草稿失败: %v", err)
	}

	fh := mustFileHeader(t, "clip.mp4", testutils.MinimalMP4())
	record, _, err := ProcessPostVideoUpload(fh, author.ID, post.ID)
	if err != nil {
		t.Fatalf("ProcessPostVideoUpload 错误: %v", err)
	}
	if !strings.Contains(record.Path, "post_videos") {
		t.Fatalf("期望路径含 post_videos，实际为 %q", record.Path)
	}

	account := mustGetAccount(t, author.ID)
	if account.UsedBytes != fh.Size {
		t.Fatalf("期望 used=%d，实际为 %d", fh.Size, account.UsedBytes)
	}
}

// 测试内容：验证删除单张图片会归还额度并删掉文件。
func TestDeletePostImage(t *testing.T) {
	setupUploadTest(t)
	author := createTestUser(t)
	post, err := CreateDraft(author.ID, "删除测试")
	if err != nil {
		t.Fatalf("建立草稿失败: %v", err)
	}

	fh := mustFileHeader(t, "a.png", testutils.MinimalPNG())
	record, _, err := ProcessPostImageUpload(fh, author.ID, post.ID)
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	fullPath := filepath.Join(config.Get().Upload.Path, record.Path)

	if err := DeletePostImage(author.ID, record.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
		t.Fatalf("期望文件已删除，实际为 %v", err)
	}
	account := mustGetAccount(t, author.ID)
	if account.UsedBytes != 0 {
		t.Fatalf("期望 used=0，实际为 %d", account.UsedBytes)
	}
}
