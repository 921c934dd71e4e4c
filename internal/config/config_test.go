package config

import (
	"os"
	"testing"
)

// 测试内容：验证初始化配置会设置默认值并写入可用的配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	// 确保不在 release 模式（release 模式下不安全的 secret 可能导致 fatal）。
	t.Setenv("YIYUAN_BLOG_SERVER_MODE", "debug")
	t.Setenv("YIYUAN_BLOG_JWT_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port == "" {
		t.Fatalf("期望 default server.port to be set")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望 JWT secret to be set in non-release mode")
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}

	// 写入一个配置文件名以确保目录可写（测试的基本健全性检查）。
	if err := os.WriteFile(dir+string(os.PathSeparator)+"_test_write", []byte("ok"), 0644); err != nil {
		t.Fatalf("期望 temp config dir to be writable: %v", err)
	}
}

// 测试内容：验证方案容量与扫描任务的默认配置与规格一致。
func TestInitConfig_StorageDefaults(t *testing.T) {
	t.Setenv("YIYUAN_BLOG_SERVER_MODE", "debug")

	InitConfig(t.TempDir())

	cfg := Get()
	wantLimits := map[string]int64{
		"free":     50,
		"basic":    150,
		"standard": 300,
		"premium":  800,
	}
	for plan, gb := range wantLimits {
		if got := cfg.Storage.PlanLimitsGB[plan]; got != gb {
			t.Fatalf("方案 %s 期望 %d GB，实际为 %d GB", plan, gb, got)
		}
	}
	if cfg.Storage.SubscriptionPeriodDays != 30 {
		t.Fatalf("期望订阅期 30 天，实际为 %d", cfg.Storage.SubscriptionPeriodDays)
	}
	if cfg.Sweep.MaxRetries != 3 || cfg.Sweep.RetryDelaySeconds != 300 {
		t.Fatalf("非预期 sweep 重试默认值: %+v", cfg.Sweep)
	}
}

// 测试内容：验证环境变量可以覆盖默认配置。
func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("YIYUAN_BLOG_SERVER_MODE", "debug")
	t.Setenv("YIYUAN_BLOG_SERVER_PORT", "9090")

	InitConfig(t.TempDir())

	if got := Get().Server.Port; got != "9090" {
		t.Fatalf("期望 env 覆盖 server.port=9090，实际为 %q", got)
	}
}
