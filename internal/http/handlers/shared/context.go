package shared

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/parcelkeep/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ParseKeyParam 读取路径中的数字主键（追踪号或联系电话），失败时直接返回 400。
func ParseKeyParam(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		response.BadRequest(c, fmt.Sprintf("%s is not a valid %s", raw, name))
		return 0, false
	}
	return value, true
}

// QueryInt 读取整数查询参数，缺失或非法时返回默认值。
func QueryInt(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
