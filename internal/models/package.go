package models

import (
	"time"

	"github.com/parcelkeep/internal/constants"

	"gorm.io/gorm"
)

// Package 包裹表
type Package struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                            // 主键
	TrackingNumber int64      `gorm:"uniqueIndex;not null" json:"tracking_number"`                     // 追踪号（系统分配，创建后不可变）
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 包裹状态
	SendDate       time.Time  `gorm:"index" json:"send_date"`                                          // 寄件时间
	SenderName     string     `gorm:"type:varchar(120);not null" json:"sender_name"`                   // 寄件人
	RecipientID    uint       `gorm:"index;not null" json:"recipient_id"`                              // 收件人ID
	Origin         string     `gorm:"type:varchar(120);not null" json:"origin"`                        // 始发地
	Destination    string     `gorm:"type:varchar(120);not null" json:"destination"`                   // 目的地
	Description    string     `gorm:"type:text" json:"description"`                                    // 描述
	PackageWeight  float64    `gorm:"not null" json:"package_weight"`                                  // 重量（kg）
	Price          float64    `gorm:"not null" json:"price"`                                           // 价格
	IDProof        Attachment `gorm:"embedded;embeddedPrefix:id_proof_" json:"-"`                      // 证件附件
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                                      // 更新时间

	Recipient *Recipient `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"` // 收件人
}

// TableName 指定表名
func (Package) TableName() string {
	return "packages"
}

// BeforeSave 持久化前执行附件策略校验
func (p *Package) BeforeSave(tx *gorm.DB) error {
	return p.IDProof.Validate("id_proof", constants.AttachmentKindIDProof)
}

// PackageIDProofColumns 证件附件列
var PackageIDProofColumns = []string{"id_proof_data", "id_proof_content_type", "id_proof_size"}
