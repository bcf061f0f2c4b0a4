package models

import "time"

// PackageEvent 包裹状态流转记录
type PackageEvent struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	TrackingNumber int64     `gorm:"index;not null" json:"tracking_number"`
	Status         string    `gorm:"type:varchar(20);not null" json:"status"`
	PreviousStatus string    `gorm:"type:varchar(20)" json:"previous_status,omitempty"`
	Source         string    `gorm:"type:varchar(20);not null" json:"source"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (PackageEvent) TableName() string {
	return "package_events"
}
