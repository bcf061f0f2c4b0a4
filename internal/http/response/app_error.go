package response

import "github.com/gin-gonic/gin"

// AppError 处理器错误：状态码、对外消息、原始错误及可选附带数据
type AppError struct {
	Code    int
	Message string
	Err     error
	Data    interface{}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithData 附加随错误一同返回的数据（如批量操作的部分结果）
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// Fail 输出 AppError 对应的错误响应
func Fail(c *gin.Context, e *AppError) {
	if e == nil {
		Error(c, CodeInternal, "internal server error")
		return
	}
	code := e.Code
	if code < CodeBadRequest {
		code = CodeInternal
	}
	ErrorWithData(c, code, e.Message, e.Data)
}
