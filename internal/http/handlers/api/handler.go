package api

import "github.com/parcelkeep/internal/provider"

// Handler 包裹与收件人接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
