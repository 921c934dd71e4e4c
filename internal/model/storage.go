package model

import (
	"time"
)

// Plan 存储方案标识
// 封闭的枚举类型, 无效的方案名在 ParsePlan 处被拦截, 不会进入系统
type Plan string

const (
	PlanFree     Plan = "FREE"
	PlanBasic    Plan = "BASIC"
	PlanStandard Plan = "STANDARD"
	PlanPremium  Plan = "PREMIUM"
)

// Plans 所有合法方案, 按容量从小到大
var Plans = []Plan{PlanFree, PlanBasic, PlanStandard, PlanPremium}

// ParsePlan 解析方案名, 第二个返回值为 false 表示无法识别
func ParsePlan(s string) (Plan, bool) {
	for _, p := range Plans {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Paid 付费方案带有到期时间, 免费方案没有
func (p Plan) Paid() bool {
	return p != PlanFree
}

// StorageAccount 每个用户一条的存储账户, 随用户一起删除
// UsedBytes 由上传/删除事件增减, LimitBytes 在方案变更时按目录重算
type StorageAccount struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	UsedBytes    int64      `json:"used_bytes" gorm:"not null;default:0"`
	LimitBytes   int64      `json:"limit_bytes" gorm:"not null"`
	PlanID       Plan       `json:"plan_id" gorm:"type:varchar(10);not null;default:'FREE'"`
	PlanExpireAt *time.Time `json:"plan_expire_at"` // 付费到期时间, 免费用户为空
	IsPaid       bool       `json:"is_paid" gorm:"not null;default:false"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

// RemainingBytes 剩余可用空间
func (a *StorageAccount) RemainingBytes() int64 {
	return a.LimitBytes - a.UsedBytes
}
