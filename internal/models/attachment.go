package models

import (
	"github.com/parcelkeep/internal/validation"
)

// Attachment 二进制附件（证件 / 图片），以嵌入字段方式存储在所属记录中
type Attachment struct {
	Data        []byte `json:"-"`                                               // 原始二进制内容（不参与 JSON 输出）
	ContentType string `gorm:"type:varchar(100)" json:"content_type,omitempty"` // MIME 类型
	Size        int64  `gorm:"default:0" json:"size,omitempty"`                 // 字节数
}

// IsEmpty 是否未上传
func (a Attachment) IsEmpty() bool {
	return validation.IsEmptyAttachment(a.Data, a.ContentType, a.Size)
}

// HasData 是否有可下载内容
func (a Attachment) HasData() bool {
	return len(a.Data) > 0
}

// Validate 按附件类型执行附件策略校验
func (a Attachment) Validate(field, kind string) error {
	return validation.ValidateAttachment(field, kind, a.Data, a.ContentType, a.Size)
}

// Meta 返回不含二进制内容的元信息，未上传时为 nil
func (a Attachment) Meta() *Attachment {
	if a.IsEmpty() {
		return nil
	}
	return &Attachment{ContentType: a.ContentType, Size: a.Size}
}
