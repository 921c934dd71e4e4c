package service

import (
	"errors"
	"log"

	"github.com/yiyuan-9527/YiyuanBlog/internal/db"
	"github.com/yiyuan-9527/YiyuanBlog/internal/model"

	"gorm.io/gorm"
)

// 存储账本: 回答"这个用户还能再存 N 字节吗", 并记录用量增减
// 上传链路的约定: 写文件之前必须先 Reserve 成功, 写失败要用 RemoveUsage 退回

const GiB = int64(1024 * 1024 * 1024)

var (
	// ErrQuotaExceeded 存储空间不足
	ErrQuotaExceeded = errors.New("存储空间不足")
	// ErrAccountNotFound 存储账户不存在(用户可能已被删除)
	ErrAccountNotFound = errors.New("存储账户不存在")
)

// CreateStorageAccountTx 在事务中为新用户建立免费方案的存储账户
// 注册用户时调用, 和建立用户同一个事务
func CreateStorageAccountTx(tx *gorm.DB, userID uint) error {
	account := model.StorageAccount{
		UserID:     userID,
		UsedBytes:  0,
		LimitBytes: PlanLimitBytes(model.PlanFree),
		PlanID:     model.PlanFree,
		IsPaid:     false,
	}
	return tx.Create(&account).Error
}

// GetStorageAccount 按用户查询存储账户
func GetStorageAccount(userID uint) (*model.StorageAccount, error) {
	var account model.StorageAccount
	if err := db.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CheckLimit 纯读判断: 剩余空间是否足够再存 additionalBytes
// 只用于上传前的快速拒绝, 真正的额度占用以 ReserveStorage 为准
func CheckLimit(userID uint, additionalBytes int64) (bool, error) {
	account, err := GetStorageAccount(userID)
	if err != nil {
		return false, err
	}
	return account.RemainingBytes() >= additionalBytes, nil
}

// ReserveStorage 原子占用存储额度
// 用单条条件更新代替"先查再写", 并发上传不会一起挤过上限:
// UPDATE ... SET used_bytes = used_bytes + n WHERE used_bytes + n <= limit_bytes
func ReserveStorage(userID uint, n int64) error {
	if n < 0 {
		return errors.New("占用字节数不能为负")
	}
	res := db.DB.Model(&model.StorageAccount{}).
		Where("user_id = ? AND used_bytes + ? <= limit_bytes", userID, n).
		UpdateColumn("used_bytes", gorm.Expr("used_bytes + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 区分额度不足和账户不存在
		var count int64
		if err := db.DB.Model(&model.StorageAccount{}).
			Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrAccountNotFound
		}
		return ErrQuotaExceeded
	}
	return nil
}

// AddUsage 无条件增加用量, 文件已经落盘之后调用
func AddUsage(userID uint, n int64) error {
	res := db.DB.Model(&model.StorageAccount{}).
		Where("user_id = ?", userID).
		UpdateColumn("used_bytes", gorm.Expr("used_bytes + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// RemoveUsage 减少用量, 文件删除之后或上传回滚时调用
// 与原始行为一致, 不做零值钳制
func RemoveUsage(userID uint, n int64) error {
	res := db.DB.Model(&model.StorageAccount{}).
		Where("user_id = ?", userID).
		UpdateColumn("used_bytes", gorm.Expr("used_bytes - ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// releaseReservation 上传失败时退回已占用的额度, 失败只记录日志
func releaseReservation(userID uint, n int64) {
	if err := RemoveUsage(userID, n); err != nil {
		log.Printf("⚠️ 回滚存储额度失败 user=%d bytes=%d: %v", userID, n, err)
	}
}

// BytesToGB 字节转 GB, 保留两位小数
func BytesToGB(n int64) float64 {
	return float64(int64(float64(n)/float64(GiB)*100+0.5)) / 100
}
