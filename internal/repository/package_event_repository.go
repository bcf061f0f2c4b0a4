package repository

import (
	"github.com/parcelkeep/internal/models"

	"gorm.io/gorm"
)

// PackageEventRepository 包裹状态记录数据访问接口
type PackageEventRepository interface {
	Create(event *models.PackageEvent) error
	ListByTrackingNumber(trackingNumber int64) ([]models.PackageEvent, error)
	DeleteByTrackingNumbers(trackingNumbers []int64) error
	WithTx(tx *gorm.DB) PackageEventRepository
}

// GormPackageEventRepository GORM 实现
type GormPackageEventRepository struct {
	db *gorm.DB
}

// NewPackageEventRepository 创建包裹状态记录仓库
func NewPackageEventRepository(db *gorm.DB) *GormPackageEventRepository {
	return &GormPackageEventRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPackageEventRepository) WithTx(tx *gorm.DB) PackageEventRepository {
	if tx == nil {
		return r
	}
	return &GormPackageEventRepository{db: tx}
}

// Create 写入状态记录
func (r *GormPackageEventRepository) Create(event *models.PackageEvent) error {
	return r.db.Create(event).Error
}

// ListByTrackingNumber 按时间顺序返回状态记录
func (r *GormPackageEventRepository) ListByTrackingNumber(trackingNumber int64) ([]models.PackageEvent, error) {
	var events []models.PackageEvent
	if err := r.db.Where("tracking_number = ?", trackingNumber).
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteByTrackingNumbers 删除包裹关联的状态记录
func (r *GormPackageEventRepository) DeleteByTrackingNumbers(trackingNumbers []int64) error {
	if len(trackingNumbers) == 0 {
		return nil
	}
	return r.db.Where("tracking_number IN ?", trackingNumbers).Delete(&models.PackageEvent{}).Error
}
