package api

import (
	"github.com/parcelkeep/internal/http/handlers/shared"
	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/service"

	"github.com/gin-gonic/gin"
)

// AddManyRecipientsRequest 批量创建收件人请求
type AddManyRecipientsRequest struct {
	Recipients []service.RecipientInput `json:"recipients"`
}

// DeleteManyRecipientsRequest 批量删除收件人请求
type DeleteManyRecipientsRequest struct {
	RecipientContacts []interface{} `json:"recipient_contacts"`
}

// RecipientUpdateItem 批量更新单项
type RecipientUpdateItem struct {
	RecipientContact int64                   `json:"recipient_contact"`
	FieldsToUpdate   *service.RecipientInput `json:"fields_to_update"`
}

// UpdateManyRecipientsRequest 批量更新收件人请求
type UpdateManyRecipientsRequest struct {
	Updates []RecipientUpdateItem `json:"updates"`
}

// RecipientBulkUpdateView 批量更新结果
type RecipientBulkUpdateView struct {
	UpdatedRecipients []RecipientView `json:"updated_recipients"`
	NotFoundNumbers   []int64         `json:"not_found_numbers"`
}

// AddManyRecipients 批量创建收件人
func (h *Handler) AddManyRecipients(c *gin.Context) {
	var req AddManyRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	recipients, err := h.RecipientService.AddMany(req.Recipients)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Created(c, presentRecipients(recipients))
}

// DeleteManyRecipients 批量删除收件人
func (h *Handler) DeleteManyRecipients(c *gin.Context) {
	var req DeleteManyRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	keys, err := service.ParseKeys(req.RecipientContacts)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	result, err := h.RecipientService.DeleteMany(keys)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateManyRecipients 批量部分更新收件人
func (h *Handler) UpdateManyRecipients(c *gin.Context) {
	var req UpdateManyRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	updates := make([]service.RecipientUpdate, 0, len(req.Updates))
	for _, item := range req.Updates {
		update := service.RecipientUpdate{RecipientContact: item.RecipientContact}
		if item.FieldsToUpdate != nil {
			update.Fields = *item.FieldsToUpdate
		}
		updates = append(updates, update)
	}
	result, err := h.RecipientService.UpdateMany(updates)
	if err != nil {
		shared.RespondError(c, withPartialResult(err, presentRecipientBulkUpdate(result)))
		return
	}
	response.Success(c, presentRecipientBulkUpdate(result))
}

// ImportRecipients 从上传文件批量创建收件人
func (h *Handler) ImportRecipients(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			shared.RespondError(c, service.ErrImportTooLarge)
			return
		}
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "file is required", err)
		return
	}
	recipients, err := h.ImportService.ImportRecipients(file)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Created(c, presentRecipients(recipients))
}

func presentRecipientBulkUpdate(result *service.RecipientBulkUpdateResult) *RecipientBulkUpdateView {
	if result == nil {
		return nil
	}
	return &RecipientBulkUpdateView{
		UpdatedRecipients: presentRecipients(result.UpdatedRecipients),
		NotFoundNumbers:   result.NotFoundNumbers,
	}
}
