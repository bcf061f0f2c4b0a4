package validation

import (
	"fmt"
	"strings"

	"github.com/parcelkeep/internal/constants"
)

// 附件校验失败原因
const (
	CauseMissing         = "missing"
	CauseTooLarge        = "too_large"
	CauseUnsupportedType = "unsupported_type"
)

var imageContentTypes = []string{
	constants.ContentTypeJPEG,
	constants.ContentTypePNG,
	constants.ContentTypeGIF,
	constants.ContentTypeWEBP,
}

var idProofContentTypes = append(append([]string{}, imageContentTypes...), constants.ContentTypePDF)

// AttachmentError 附件策略校验失败
type AttachmentError struct {
	Field   string
	Cause   string
	Message string
}

func (e *AttachmentError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// AllowedContentTypes 返回附件类型允许的 MIME 列表
func AllowedContentTypes(kind string) []string {
	if kind == constants.AttachmentKindImage {
		return imageContentTypes
	}
	return idProofContentTypes
}

// IsEmptyAttachment 判断附件是否未设置
func IsEmptyAttachment(data []byte, contentType string, size int64) bool {
	return len(data) == 0 && strings.TrimSpace(contentType) == "" && size == 0
}

// ValidateAttachment 校验附件大小与类型，未设置的附件视为合法
func ValidateAttachment(field, kind string, data []byte, contentType string, size int64) error {
	if IsEmptyAttachment(data, contentType, size) {
		return nil
	}
	if len(data) == 0 {
		return &AttachmentError{
			Field:   field,
			Cause:   CauseMissing,
			Message: fmt.Sprintf("%s data is required", field),
		}
	}
	if size > constants.AttachmentMaxSize || int64(len(data)) > constants.AttachmentMaxSize {
		return TooLarge(field)
	}
	allowed := AllowedContentTypes(kind)
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range allowed {
		if normalized == t {
			return nil
		}
	}
	return &AttachmentError{
		Field:   field,
		Cause:   CauseUnsupportedType,
		Message: fmt.Sprintf("Unsupported file format: %s. Allowed formats: %s", contentType, strings.Join(allowed, ", ")),
	}
}

// TooLarge 构造超出大小限制错误
func TooLarge(field string) *AttachmentError {
	return &AttachmentError{
		Field:   field,
		Cause:   CauseTooLarge,
		Message: fmt.Sprintf("File size exceeds the %dMB limit", constants.AttachmentMaxSize/1024/1024),
	}
}
