package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"

	"gorm.io/gorm"
)

// 方案目录与升降级状态机
// FREE 是唯一不过期的状态, 其余方案付费且带到期时间

var (
	// ErrInvalidPlan 无法识别的方案名
	ErrInvalidPlan = errors.New("无效的方案")
	// ErrSamePlan 升级目标和当前方案相同
	ErrSamePlan = errors.New("已经是该方案了")
)

// 配置缺失时的兜底容量, 和默认配置一致
var fallbackPlanLimitsGB = map[model.Plan]int64{
	model.PlanFree:     50,
	model.PlanBasic:    150,
	model.PlanStandard: 300,
	model.PlanPremium:  800,
}

// PlanLimitBytes 查询方案的容量上限(字节)
func PlanLimitBytes(p model.Plan) int64 {
	limits := config.Get().Storage.PlanLimitsGB
	if gb, ok := limits[strings.ToLower(string(p))]; ok && gb > 0 {
		return gb * GiB
	}
	return fallbackPlanLimitsGB[p] * GiB
}

// SubscriptionPeriod 付费方案的订阅期
func SubscriptionPeriod() time.Duration {
	days := config.Get().Storage.SubscriptionPeriodDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// UpgradePlan 把用户的存储方案升级(或改签)为 newPlan
// 规则:
//   - 方案名无法识别 -> ErrInvalidPlan
//   - 与当前方案相同 -> ErrSamePlan (改签同方案不是幂等成功, 是错误)
//   - 成功时在同一事务里更新方案名、容量上限、到期时间和付费标记
//
// 注意: 从高方案改签到低方案后账户可能超额, 已有文件不动,
// 新的上传会被 ReserveStorage 挡住, 直到用量降回上限以下
func UpgradePlan(userID uint, newPlanName string) (*model.StorageAccount, error) {
	newPlan, ok := model.ParsePlan(newPlanName)
	if !ok {
		return nil, ErrInvalidPlan
	}

	var account model.StorageAccount
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if account.PlanID == newPlan {
			return ErrSamePlan
		}

		expireAt := time.Now().Add(SubscriptionPeriod())
		account.PlanID = newPlan
		account.LimitBytes = PlanLimitBytes(newPlan)
		account.PlanExpireAt = &expireAt
		account.IsPaid = true
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ 用户 %d 方案升级为 %s, 到期时间 %s", userID, account.PlanID, account.PlanExpireAt.Format(time.RFC3339))
	return &account, nil
}

// DowngradeToFree 把存储账户降回免费方案
// 只由到期扫描任务触发, 幂等: 对已经是 FREE 的账户重复执行结果不变
func DowngradeToFree(accountID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var account model.StorageAccount
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		account.PlanID = model.PlanFree
		account.LimitBytes = PlanLimitBytes(model.PlanFree)
		account.PlanExpireAt = nil
		account.IsPaid = false
		return tx.Save(&account).Error
	})
}
