package service

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/validation"
)

// sniffLength http.DetectContentType 最多读取的字节数
const sniffLength = 512

// ReadAttachment 读取上传文件为附件；超出大小上限时在读取内容前拒绝
func ReadAttachment(field string, file *multipart.FileHeader) (models.Attachment, error) {
	if file == nil {
		return models.Attachment{}, &validation.AttachmentError{
			Field:   field,
			Cause:   validation.CauseMissing,
			Message: field + " file is required",
		}
	}
	if file.Size > constants.AttachmentMaxSize {
		return models.Attachment{}, validation.TooLarge(field)
	}

	src, err := file.Open()
	if err != nil {
		return models.Attachment{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, constants.AttachmentMaxSize+1))
	if err != nil {
		return models.Attachment{}, err
	}
	if int64(len(data)) > constants.AttachmentMaxSize {
		return models.Attachment{}, validation.TooLarge(field)
	}

	return models.Attachment{
		Data:        data,
		ContentType: resolveContentType(file.Header.Get("Content-Type"), data),
		Size:        int64(len(data)),
	}, nil
}

// resolveContentType 优先使用客户端声明的类型，缺失或为通用二进制时按内容识别
func resolveContentType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		mediaType = strings.ToLower(mediaType)
		if mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	head := data
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	detected, _, err := mime.ParseMediaType(http.DetectContentType(head))
	if err != nil {
		return "application/octet-stream"
	}
	return detected
}
