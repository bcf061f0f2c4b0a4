package api

import (
	"strconv"
	"strings"

	"github.com/parcelkeep/internal/http/handlers/shared"
	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/repository"
	"github.com/parcelkeep/internal/service"

	"github.com/gin-gonic/gin"
)

// PackageStatusRequest 包裹状态更新请求
type PackageStatusRequest struct {
	Status *string `json:"status"`
}

// ListPackages 包裹列表
func (h *Handler) ListPackages(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.PackageListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   c.Query("search"),
	}
	if raw := strings.TrimSpace(c.Query("recipient_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, raw+" is not a valid recipient_id")
			return
		}
		filter.RecipientID = uint(id)
	}

	items, total, err := h.PackageService.List(filter)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithPage(c, presentPackages(items), response.BuildPagination(page, pageSize, total))
}

// CreatePackage 创建包裹
func (h *Handler) CreatePackage(c *gin.Context) {
	var req service.PackageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	pkg, err := h.PackageService.Create(req)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Created(c, presentPackage(pkg))
}

// GetPackage 包裹详情
func (h *Handler) GetPackage(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	pkg, err := h.PackageService.Get(trackingNumber)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, presentPackage(pkg))
}

// ReplacePackage 全量更新包裹
func (h *Handler) ReplacePackage(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	var req service.PackageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	pkg, err := h.PackageService.Replace(trackingNumber, req)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, presentPackage(pkg))
}

// PatchPackageStatus 更新包裹状态
func (h *Handler) PatchPackageStatus(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	var req PackageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	pkg, err := h.PackageService.PatchStatus(trackingNumber, req.Status)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, presentPackage(pkg))
}

// DeletePackage 删除包裹
func (h *Handler) DeletePackage(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	if err := h.PackageService.Delete(trackingNumber); err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithMsg(c, "package deleted", gin.H{"tracking_number": trackingNumber})
}

// GetPackageEvents 包裹状态流转记录
func (h *Handler) GetPackageEvents(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	events, err := h.PackageService.Events(trackingNumber)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, events)
}
