package handler

import (
	"net/http"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/service"

	"github.com/gin-gonic/gin"
)

// GetStorageInfo 查询自己的存储用量
// 容量以 GB 回传, 保留两位小数
func GetStorageInfo(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := service.GetStorageAccount(uid)
	if err != nil {
		writeServiceError(c, err, "查询存储信息失败")
		return
	}

	resp := gin.H{
		"plan_name":     account.PlanID,
		"used_space":    service.BytesToGB(account.UsedBytes),
		"storage_limit": service.BytesToGB(account.LimitBytes),
		"is_paid":       account.IsPaid,
	}
	if account.PlanExpireAt != nil {
		resp["plan_expire_at"] = account.PlanExpireAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

// UpgradeStoragePlan 升级(或改签)存储方案
func UpgradeStoragePlan(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		NewPlan string `json:"new_plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	account, err := service.UpgradePlan(uid, req.NewPlan)
	if err != nil {
		writeServiceError(c, err, "方案升级失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "方案升级成功",
		"plan_name":      account.PlanID,
		"storage_limit":  service.BytesToGB(account.LimitBytes),
		"plan_expire_at": account.PlanExpireAt.Format(time.RFC3339),
	})
}
