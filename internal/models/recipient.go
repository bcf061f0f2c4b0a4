package models

import (
	"time"

	"github.com/parcelkeep/internal/constants"

	"gorm.io/gorm"
)

// Recipient 收件人表
type Recipient struct {
	ID               uint       `gorm:"primarykey" json:"id"`                              // 主键
	RecipientName    string     `gorm:"type:varchar(120);not null" json:"recipient_name"`  // 姓名
	RecipientEmail   string     `gorm:"type:varchar(255);not null" json:"recipient_email"` // 邮箱
	RecipientContact int64      `gorm:"uniqueIndex;not null" json:"recipient_contact"`     // 联系电话（对外主键）
	Address          string     `gorm:"type:varchar(100);not null" json:"address"`         // 地址
	IDProof          Attachment `gorm:"embedded;embeddedPrefix:id_proof_" json:"-"`        // 证件附件
	Image            Attachment `gorm:"embedded;embeddedPrefix:image_" json:"-"`           // 头像图片
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (Recipient) TableName() string {
	return "recipients"
}

// BeforeSave 持久化前执行附件策略校验
func (r *Recipient) BeforeSave(tx *gorm.DB) error {
	if err := r.IDProof.Validate("id_proof", constants.AttachmentKindIDProof); err != nil {
		return err
	}
	return r.Image.Validate("image", constants.AttachmentKindImage)
}

// RecipientBlobColumns 收件人附件二进制列，列表查询时排除
var RecipientBlobColumns = []string{"id_proof_data", "image_data"}
