package api

import (
	"github.com/parcelkeep/internal/http/handlers/shared"
	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/service"

	"github.com/gin-gonic/gin"
)

// AddManyPackagesRequest 批量创建包裹请求
type AddManyPackagesRequest struct {
	Packages []service.PackageInput `json:"packages"`
}

// DeleteManyPackagesRequest 批量删除包裹请求
type DeleteManyPackagesRequest struct {
	TrackingNumbers []interface{} `json:"tracking_numbers"`
}

// PackageUpdateItem 批量更新单项
type PackageUpdateItem struct {
	TrackingNumber int64                 `json:"tracking_number"`
	FieldsToUpdate *service.PackageInput `json:"fields_to_update"`
}

// UpdateManyPackagesRequest 批量更新包裹请求
type UpdateManyPackagesRequest struct {
	Updates []PackageUpdateItem `json:"updates"`
}

// PackageBulkUpdateView 批量更新结果
type PackageBulkUpdateView struct {
	UpdatedPackages []PackageView `json:"updated_packages"`
	NotFoundNumbers []int64       `json:"not_found_numbers"`
}

// AddManyPackages 批量创建包裹
func (h *Handler) AddManyPackages(c *gin.Context) {
	var req AddManyPackagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	pkgs, err := h.PackageService.AddMany(req.Packages)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Created(c, presentPackages(pkgs))
}

// DeleteManyPackages 批量删除包裹
func (h *Handler) DeleteManyPackages(c *gin.Context) {
	var req DeleteManyPackagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	keys, err := service.ParseKeys(req.TrackingNumbers)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	result, err := h.PackageService.DeleteMany(keys)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateManyPackages 批量部分更新包裹
func (h *Handler) UpdateManyPackages(c *gin.Context) {
	var req UpdateManyPackagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	updates := make([]service.PackageUpdate, 0, len(req.Updates))
	for _, item := range req.Updates {
		update := service.PackageUpdate{TrackingNumber: item.TrackingNumber}
		if item.FieldsToUpdate != nil {
			update.Fields = *item.FieldsToUpdate
		}
		updates = append(updates, update)
	}
	result, err := h.PackageService.UpdateMany(updates)
	if err != nil {
		shared.RespondError(c, withPartialResult(err, presentPackageBulkUpdate(result)))
		return
	}
	response.Success(c, presentPackageBulkUpdate(result))
}

// ImportPackages 从上传文件批量创建包裹
func (h *Handler) ImportPackages(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			shared.RespondError(c, service.ErrImportTooLarge)
			return
		}
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "file is required", err)
		return
	}
	pkgs, err := h.ImportService.ImportPackages(file)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Created(c, presentPackages(pkgs))
}

func presentPackageBulkUpdate(result *service.PackageBulkUpdateResult) *PackageBulkUpdateView {
	if result == nil {
		return nil
	}
	return &PackageBulkUpdateView{
		UpdatedPackages: presentPackages(result.UpdatedPackages),
		NotFoundNumbers: result.NotFoundNumbers,
	}
}
