package shared

import (
	"errors"
	"fmt"

	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/service"
	"github.com/parcelkeep/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// ErrorStatus 将业务错误映射为 HTTP 状态码。
func ErrorStatus(err error) int {
	var fieldErr *validation.FieldError
	var attachmentErr *validation.AttachmentError
	switch {
	case err == nil:
		return response.CodeOK
	case errors.As(err, &fieldErr), errors.As(err, &attachmentErr):
		return response.CodeBadRequest
	case errors.Is(err, service.ErrBulkInsertFailed),
		errors.Is(err, service.ErrImportParseFailed),
		errors.Is(err, service.ErrTrackingAllocationExhausted):
		return response.CodeInternal
	case errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, service.ErrInvalidKeys),
		errors.Is(err, service.ErrInvalidUpdate),
		errors.Is(err, service.ErrRecipientContactTaken),
		errors.Is(err, service.ErrUnsupportedImportFormat),
		errors.Is(err, service.ErrImportTooLarge):
		return response.CodeBadRequest
	case errors.Is(err, service.ErrPackageNotFound),
		errors.Is(err, service.ErrRecipientNotFound),
		errors.Is(err, service.ErrIDProofNotFound),
		errors.Is(err, service.ErrImageNotFound):
		return response.CodeNotFound
	default:
		return response.CodeInternal
	}
}

// ErrorMessage 返回面向调用方的错误消息；未知错误不暴露内部细节。
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var itemErr *service.BulkItemError
	if errors.As(err, &itemErr) {
		return fmt.Sprintf("item %d: %s", itemErr.Index, ErrorMessage(itemErr.Err))
	}
	if ErrorStatus(err) == response.CodeInternal && !isSurfacedInternal(err) {
		return "internal server error"
	}
	return err.Error()
}

func isSurfacedInternal(err error) bool {
	return errors.Is(err, service.ErrBulkInsertFailed) ||
		errors.Is(err, service.ErrImportParseFailed) ||
		errors.Is(err, service.ErrTrackingAllocationExhausted)
}

// RespondError 按错误类型返回响应，并记录日志。
func RespondError(c *gin.Context, err error) {
	appErr := response.WrapError(ErrorStatus(err), ErrorMessage(err), err)
	var itemErr *service.BulkItemError
	if errors.As(err, &itemErr) && itemErr.Result != nil {
		appErr.WithData(gin.H{
			"index":          itemErr.Index,
			"partial_result": itemErr.Result,
		})
	}
	logError(c, appErr)
	response.Fail(c, appErr)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		logError(c, appErr)
	}
	response.Fail(c, appErr)
}

func logError(c *gin.Context, appErr *response.AppError) {
	if appErr.Code >= response.CodeInternal {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
		)
		return
	}
	RequestLog(c).Infow("handler_rejected",
		"code", appErr.Code,
		"message", appErr.Message,
		"error", appErr.Err,
	)
}
