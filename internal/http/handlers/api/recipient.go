package api

import (
	"github.com/parcelkeep/internal/http/handlers/shared"
	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/repository"
	"github.com/parcelkeep/internal/service"

	"github.com/gin-gonic/gin"
)

// ListRecipients 收件人列表
func (h *Handler) ListRecipients(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	items, total, err := h.RecipientService.List(repository.RecipientListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithPage(c, presentRecipients(items), response.BuildPagination(page, pageSize, total))
}

// CreateRecipient 创建收件人
func (h *Handler) CreateRecipient(c *gin.Context) {
	var req service.RecipientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	recipient, err := h.RecipientService.Create(req)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Created(c, presentRecipient(recipient))
}

// GetRecipient 收件人详情
func (h *Handler) GetRecipient(c *gin.Context) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	recipient, err := h.RecipientService.Get(contact)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, presentRecipient(recipient))
}

// ReplaceRecipient 全量更新收件人
func (h *Handler) ReplaceRecipient(c *gin.Context) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	var req service.RecipientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	recipient, err := h.RecipientService.Replace(contact, req)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, presentRecipient(recipient))
}

// PatchRecipient 部分更新收件人
func (h *Handler) PatchRecipient(c *gin.Context) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	var req service.RecipientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondErrorWithMsg(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if req.IsEmpty() {
		response.BadRequest(c, "at least one field is required")
		return
	}
	recipient, err := h.RecipientService.PatchFields(contact, req)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, presentRecipient(recipient))
}

// DeleteRecipient 删除收件人
func (h *Handler) DeleteRecipient(c *gin.Context) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	if err := h.RecipientService.Delete(contact); err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithMsg(c, "recipient deleted", gin.H{"recipient_contact": contact})
}
