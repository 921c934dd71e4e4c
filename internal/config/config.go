package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"
)

// 用于管理应用配置

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"` // 对外访问地址, 用于拼接验证链接和文件 URL
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessExpirationWeeks  int    `mapstructure:"access_expiration_weeks"`
	RefreshExpirationWeeks int    `mapstructure:"refresh_expiration_weeks"`
	EmailExpirationHours   int    `mapstructure:"email_expiration_hours"`
}

type AuthConfig struct {
	BlockUnverified bool `mapstructure:"block_unverified"` // 未验证邮箱的账号禁止登录
	CaptchaEnabled  bool `mapstructure:"captcha_enabled"`  // 注册时需要图形验证码
}

type UploadConfig struct {
	Path               string `mapstructure:"path"`
	URLPrefix          string `mapstructure:"url_prefix"`
	MaxImageSizeMB     int    `mapstructure:"max_image_size_mb"`
	MaxVideoSizeMB     int    `mapstructure:"max_video_size_mb"`
	MaxRequestBodyMB   int    `mapstructure:"max_request_body_mb"`
	StaticCacheControl string `mapstructure:"static_cache_control"`
}

// StorageConfig 存储方案配置
// 各方案的容量上限是部署配置, 不是写死的契约, 不同环境可以调整
type StorageConfig struct {
	PlanLimitsGB           map[string]int64 `mapstructure:"plan_limits_gb"`
	SubscriptionPeriodDays int              `mapstructure:"subscription_period_days"`
}

// SweepConfig 方案到期扫描任务配置
type SweepConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	DailyAt           string `mapstructure:"daily_at"` // HH:MM, 每日触发时刻
	Workers           int    `mapstructure:"workers"`
	MaxRetries        int    `mapstructure:"max_retries"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	SSL      bool   `mapstructure:"ssl"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	AuthRPS     float64 `mapstructure:"auth_rps"`
	AuthBurst   int     `mapstructure:"auth_burst"`
	UploadRPS   float64 `mapstructure:"upload_rps"`
	UploadBurst int     `mapstructure:"upload_burst"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	enforceJWTSecretSafety()
	log.Println("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 设置默认值
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://127.0.0.1:8080")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/yiyuan_blog.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "yiyuan_blog")
	v.SetDefault("database.ssl", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_expiration_weeks", 4)
	v.SetDefault("jwt.refresh_expiration_weeks", 12)
	v.SetDefault("jwt.email_expiration_hours", 1)
	v.SetDefault("auth.block_unverified", true)
	v.SetDefault("auth.captcha_enabled", false)
	v.SetDefault("upload.path", "uploads")
	v.SetDefault("upload.url_prefix", "/media/")
	v.SetDefault("upload.max_image_size_mb", 3)
	v.SetDefault("upload.max_video_size_mb", 500)
	v.SetDefault("upload.max_request_body_mb", 2)
	v.SetDefault("upload.static_cache_control", "public, max-age=86400")
	v.SetDefault("storage.plan_limits_gb.free", 50)
	v.SetDefault("storage.plan_limits_gb.basic", 150)
	v.SetDefault("storage.plan_limits_gb.standard", 300)
	v.SetDefault("storage.plan_limits_gb.premium", 800)
	v.SetDefault("storage.subscription_period_days", 30)
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.daily_at", "12:00")
	v.SetDefault("sweep.workers", 4)
	v.SetDefault("sweep.max_retries", 3)
	v.SetDefault("sweep.retry_delay_seconds", 300)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.ssl", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "yiyuan_blog")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.auth_rps", 1.0)
	v.SetDefault("rate_limit.auth_burst", 5)
	v.SetDefault("rate_limit.upload_rps", 2.0)
	v.SetDefault("rate_limit.upload_burst", 10)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 配置环境变量覆盖
	// 规则：所有环境变量必须以 YIYUAN_BLOG_ 开头
	// 例如：yaml 中的 server.port 对应环境变量 YIYUAN_BLOG_SERVER_PORT
	v.SetEnvPrefix("YIYUAN_BLOG")

	// 允许自动查找环境变量
	v.AutomaticEnv()

	// 解决层级分隔符问题：将 key 中的 "." 替换为 "_"
	// 这样 server.port 才能匹配 SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	// 加写锁，防止并发重载时的竞争
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	// 将配置映射到结构体
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	// 安全检查
	if tempConfig.Server.Mode == "release" {
		if tempConfig.JWT.Secret == "" || tempConfig.JWT.Secret == "yiyuan_blog_secret" {
			log.Println("❌ [安全严重错误] 生产模式(release)下必须设置安全的 JWT Secret！")
		}
	} else {
		if tempConfig.JWT.Secret == "" {
			log.Println("⚠️ [开发模式警告] 未设置 JWT Secret，将使用默认不安全密钥进行开发")
			tempConfig.JWT.Secret = "yiyuan_blog_secret"
		}
	}

	// 原子替换全局配置
	appConfig.Store(&tempConfig)
	log.Println("✅ 配置已更新")
}

func enforceJWTSecretSafety() {
	// 首次启动安全检查：如果是 release 模式，拦截不安全的 JWT Secret
	curr := Get()
	if curr.Server.Mode == "release" {
		if curr.JWT.Secret == "" || curr.JWT.Secret == "yiyuan_blog_secret" {
			log.Fatal("❌ [安全严重错误] 生产模式(release)下必须设置安全的 JWT Secret！\n请设置环境变量 YIYUAN_BLOG_JWT_SECRET 或在配置文件中指定 jwt.secret")
		}
	}
}
