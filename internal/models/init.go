package models

import (
	"github.com/parcelkeep/internal/logger"

	"gorm.io/gorm"
)

// IsEmpty 判断库中是否尚无收件人与包裹
func IsEmpty(db *gorm.DB) (bool, error) {
	var recipients, packages int64
	if err := db.Model(&Recipient{}).Count(&recipients).Error; err != nil {
		return false, err
	}
	if err := db.Model(&Package{}).Count(&packages).Error; err != nil {
		return false, err
	}
	if recipients > 0 || packages > 0 {
		logger.Infow("database_not_empty", "recipients", recipients, "packages", packages)
		return false, nil
	}
	return true, nil
}
