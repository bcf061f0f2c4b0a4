package service

import (
	"errors"
	"fmt"
)

var (
	ErrPackageNotFound             = errors.New("package not found")
	ErrRecipientNotFound           = errors.New("recipient not found")
	ErrIDProofNotFound             = errors.New("ID proof not found")
	ErrImageNotFound               = errors.New("image not found")
	ErrEmptyBatch                  = errors.New("batch must contain at least one item")
	ErrInvalidKeys                 = errors.New("keys must be a non-empty array of numbers")
	ErrInvalidUpdate               = errors.New("each update needs a key and fields_to_update")
	ErrRecipientContactTaken       = errors.New("recipient contact is already used by another recipient")
	ErrBulkInsertFailed            = errors.New("bulk insert failed")
	ErrImportParseFailed           = errors.New("import file could not be parsed")
	ErrUnsupportedImportFormat     = errors.New("import file must be .json or .csv")
	ErrImportTooLarge              = errors.New("import file exceeds the 10MB limit")
	ErrTrackingAllocationExhausted = errors.New("tracking number allocation kept conflicting")
)

// BulkItemError 批量操作中单项失败，Index 从 1 开始
type BulkItemError struct {
	Index  int
	Err    error
	Result interface{} // 失败前已生效的部分结果
}

func (e *BulkItemError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("item %d: %s", e.Index, e.Err.Error())
}

// Unwrap 返回底层错误
func (e *BulkItemError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
