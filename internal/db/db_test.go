package db

import (
	"path/filepath"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
)

// 测试内容：验证 SQLite 模式下初始化数据库并完成迁移。
func TestInitDB_SQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("YIYUAN_BLOG_SERVER_MODE", "debug")
	t.Setenv("YIYUAN_BLOG_DATABASE_TYPE", "sqlite")
	t.Setenv("YIYUAN_BLOG_DATABASE_FILENAME", filepath.Join(dir, "test.db"))

	config.InitConfig(dir)
	InitDB()

	if DB == nil {
		t.Fatal("期望 DB 已初始化")
	}
	if !DB.Migrator().HasTable(&model.StorageAccount{}) {
		t.Fatal("期望 storage_accounts 表已迁移")
	}
	if !DB.Migrator().HasTable(&model.Post{}) {
		t.Fatal("期望 posts 表已迁移")
	}
}
