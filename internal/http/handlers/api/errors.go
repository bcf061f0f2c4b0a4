package api

import (
	"errors"
	"net/http"

	"github.com/parcelkeep/internal/service"
)

// isBodyTooLarge 判断请求体是否被 BodyLimitMiddleware 截断
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// withPartialResult 用对外结构替换批量错误中的部分结果
func withPartialResult(err error, view interface{}) error {
	var itemErr *service.BulkItemError
	if !errors.As(err, &itemErr) || itemErr.Result == nil {
		return err
	}
	return &service.BulkItemError{Index: itemErr.Index, Err: itemErr.Err, Result: view}
}
