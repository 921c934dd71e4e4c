package service

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"

	"github.com/go-co-op/gocron/v2"
)

// 方案到期扫描: 每日找出已到期的付费账户, 逐个降回免费方案
// 每个账户是一个独立任务, 单个账户失败不会挡住其他账户

// SweepReport 一轮扫描的结果, 给调度日志和测试用
type SweepReport struct {
	Scanned    int // 查到的到期账户数
	Downgraded int // 成功降级数
	Missing    int // 账户已不存在(终态, 不重试)
	Failed     int // 重试耗尽仍失败数
}

// SweepExpiredPlans 执行一轮到期扫描
// 查询条件: 到期时间非空且 <= now, 且方案不是 FREE
func SweepExpiredPlans() SweepReport {
	log.Println("开始检查用户方案")

	var accountIDs []uint
	err := db.DB.Model(&model.StorageAccount{}).
		Where("plan_expire_at IS NOT NULL AND plan_expire_at <= ? AND plan_id <> ?",
			time.Now(), model.PlanFree).
		Pluck("id", &accountIDs).Error
	if err != nil {
		log.Printf("❌ 查询到期账户失败: %v", err)
		return SweepReport{}
	}

	if len(accountIDs) == 0 {
		log.Println("没有需要降级的用户")
		return SweepReport{}
	}
	log.Printf("找到 %d 个存储方案需要降级", len(accountIDs))

	report := SweepReport{Scanned: len(accountIDs)}

	cfg := config.Get().Sweep
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	// 一个账户一个任务, 固定数量的 worker 消费
	// 账户之间没有顺序保证, 降级本身幂等, 重复执行无害
	jobs := make(chan uint)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for accountID := range jobs {
				err := downgradeWithRetry(accountID)
				mu.Lock()
				switch {
				case err == nil:
					report.Downgraded++
				case errors.Is(err, ErrAccountNotFound):
					report.Missing++
				default:
					report.Failed++
				}
				mu.Unlock()
			}
		}()
	}
	for _, id := range accountIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	log.Printf("✅ 方案降级完成: 共 %d, 成功 %d, 已删除 %d, 失败 %d",
		report.Scanned, report.Downgraded, report.Missing, report.Failed)
	return report
}

// downgradeWithRetry 处理单个账户的降级
// 账户不存在是终态, 记录后跳过; 其他错误按固定间隔重试, 次数有上限,
// 重试耗尽后把失败暴露给调度方(日志 + 报告), 不静默吞掉
func downgradeWithRetry(accountID uint) error {
	cfg := config.Get().Sweep
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryDelay := time.Duration(cfg.RetryDelaySeconds) * time.Second

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		err := DowngradeToFree(accountID)
		if err == nil {
			log.Printf("存储账户 %d 的方案已经降级为免费方案", accountID)
			return nil
		}
		if errors.Is(err, ErrAccountNotFound) {
			log.Printf("存储账户 %d 不存在, 跳过", accountID)
			return err
		}

		lastErr = err
		log.Printf("降级失败 ID %d (第 %d 次): %v", accountID, attempt+1, err)
	}

	log.Printf("❌ 存储账户 %d 降级重试耗尽: %v", accountID, lastErr)
	return lastErr
}

// StartSweepScheduler 启动每日到期扫描调度
// 返回 scheduler 以便停机时 Shutdown
func StartSweepScheduler() (gocron.Scheduler, error) {
	cfg := config.Get().Sweep
	if !cfg.Enabled {
		log.Println("⚠️  方案到期扫描未启用")
		return nil, nil
	}

	hour, minute := parseDailyAt(cfg.DailyAt)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() {
			SweepExpiredPlans()
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Printf("✅ 方案到期扫描已调度, 每日 %02d:%02d 执行", hour, minute)
	return scheduler, nil
}

// parseDailyAt 解析 "HH:MM", 非法时退回 12:00
func parseDailyAt(s string) (uint, uint) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 12, 0
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 12, 0
	}
	return uint(hour), uint(minute)
}
