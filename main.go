package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/middleware"
	"github.com/yiyuan-9527/YiyuanBlog/internal/router"
	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	config.InitConfig("")
	db.InitDB()

	uploadPath := config.Get().Upload.Path
	checkSecurePath(uploadPath)
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		log.Fatal("无法创建上传目录: ", err)
	}

	gin.SetMode(config.Get().Server.Mode)

	r := gin.Default()
	router.InitRouter(r)

	// 使用带缓存控制的静态文件服务
	r.Group(config.Get().Upload.URLPrefix, middleware.StaticCacheMiddleware()).
		StaticFS("", gin.Dir(uploadPath, false))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "not found"})
	})

	// 启动每日方案到期扫描
	scheduler, err := service.StartSweepScheduler()
	if err != nil {
		log.Fatalf("❌ 扫描任务启动失败: %v", err)
	}

	// 停机配置
	srv := &http.Server{
		Addr:    ":" + config.Get().Server.Port,
		Handler: r,
	}

	go func() {
		// 服务连接
		log.Printf("🚀 服务启动成功，运行在 :%s\n", config.Get().Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("⚠️ 扫描任务关闭失败: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ 服务强制关闭:", err)
	}
	log.Println("✅ 服务已退出")
}

func checkSecurePath(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("❌ 路径解析失败: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ 无法获取当前工作目录: %v", err)
	}

	// 检查是否直接指向项目根目录
	if absPath == cwd {
		log.Fatalf("❌ 安全配置错误: 静态资源目录 '%s' 不能设置为项目根目录！这会导致源代码泄露。", path)
	}

	// 检查路径安全
	rel, err := filepath.Rel(cwd, absPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		relSlash := filepath.ToSlash(rel)
		if !staticDirAllowed(relSlash) {
			log.Fatalf("❌ 安全配置错误: 静态资源目录 '%s' (解析为: '%s') 必须位于项目根目录下的安全子目录中 (如 %v)。", path, relSlash, staticAllowedDirs)
		}
	}
}

// 允许的安全目录列表
// 只有位于这些目录下的路径才被允许作为静态资源目录
var staticAllowedDirs = []string{
	"uploads",
	"public",
	"assets",
	"static",
	"tmp",
}

// staticDirAllowed 判断相对路径(已统一为 / 分隔)的第一段是否在白名单里
func staticDirAllowed(relSlash string) bool {
	firstComponent := strings.Split(relSlash, "/")[0]
	for _, allowed := range staticAllowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return true
		}
	}
	return false
}
