package api

import (
	"net/http"
	"strconv"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/http/handlers/shared"
	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/service"
	"github.com/parcelkeep/internal/validation"

	"github.com/gin-gonic/gin"
)

// readUpload 读取 multipart 字段 file 为附件
func readUpload(c *gin.Context, field string) (models.Attachment, bool) {
	file, err := c.FormFile("file")
	if err != nil && isBodyTooLarge(err) {
		shared.RespondError(c, validation.TooLarge(field))
		return models.Attachment{}, false
	}
	upload, err := service.ReadAttachment(field, file)
	if err != nil {
		shared.RespondError(c, err)
		return models.Attachment{}, false
	}
	return upload, true
}

// writeAttachment 以存储的 MIME 类型返回附件原始内容
func writeAttachment(c *gin.Context, attachment *models.Attachment) {
	c.Header("Content-Length", strconv.Itoa(len(attachment.Data)))
	c.Data(http.StatusOK, attachment.ContentType, attachment.Data)
}

// UploadPackageIDProof 上传包裹证件
func (h *Handler) UploadPackageIDProof(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	upload, ok := readUpload(c, constants.AttachmentKindIDProof)
	if !ok {
		return
	}
	pkg, err := h.PackageService.AttachIDProof(trackingNumber, upload)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithMsg(c, "ID proof uploaded", presentPackage(pkg))
}

// GetPackageIDProof 下载包裹证件
func (h *Handler) GetPackageIDProof(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	attachment, err := h.PackageService.FetchIDProof(trackingNumber)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	writeAttachment(c, attachment)
}

// DeletePackageIDProof 删除包裹证件
func (h *Handler) DeletePackageIDProof(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	if err := h.PackageService.DeleteIDProof(trackingNumber); err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithMsg(c, "ID proof deleted", nil)
}

// ValidatePackageIDProof 复核包裹证件
func (h *Handler) ValidatePackageIDProof(c *gin.Context) {
	trackingNumber, ok := shared.ParseKeyParam(c, "tracking_number")
	if !ok {
		return
	}
	meta, err := h.PackageService.ValidateIDProof(trackingNumber)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, meta)
}

// UploadRecipientIDProof 上传收件人证件
func (h *Handler) UploadRecipientIDProof(c *gin.Context) {
	h.uploadRecipientAttachment(c, constants.AttachmentKindIDProof, h.RecipientService.AttachIDProof)
}

// GetRecipientIDProof 下载收件人证件
func (h *Handler) GetRecipientIDProof(c *gin.Context) {
	h.fetchRecipientAttachment(c, h.RecipientService.FetchIDProof)
}

// DeleteRecipientIDProof 删除收件人证件
func (h *Handler) DeleteRecipientIDProof(c *gin.Context) {
	h.deleteRecipientAttachment(c, "ID proof deleted", h.RecipientService.DeleteIDProof)
}

// ValidateRecipientIDProof 复核收件人证件
func (h *Handler) ValidateRecipientIDProof(c *gin.Context) {
	h.validateRecipientAttachment(c, h.RecipientService.ValidateIDProof)
}

// UploadRecipientImage 上传收件人图片
func (h *Handler) UploadRecipientImage(c *gin.Context) {
	h.uploadRecipientAttachment(c, constants.AttachmentKindImage, h.RecipientService.AttachImage)
}

// GetRecipientImage 下载收件人图片
func (h *Handler) GetRecipientImage(c *gin.Context) {
	h.fetchRecipientAttachment(c, h.RecipientService.FetchImage)
}

// DeleteRecipientImage 删除收件人图片
func (h *Handler) DeleteRecipientImage(c *gin.Context) {
	h.deleteRecipientAttachment(c, "image deleted", h.RecipientService.DeleteImage)
}

// ValidateRecipientImage 复核收件人图片
func (h *Handler) ValidateRecipientImage(c *gin.Context) {
	h.validateRecipientAttachment(c, h.RecipientService.ValidateImage)
}

func (h *Handler) uploadRecipientAttachment(c *gin.Context, kind string, attach func(int64, models.Attachment) (*models.Recipient, error)) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	upload, ok := readUpload(c, kind)
	if !ok {
		return
	}
	recipient, err := attach(contact, upload)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithMsg(c, kind+" uploaded", presentRecipient(recipient))
}

func (h *Handler) fetchRecipientAttachment(c *gin.Context, fetch func(int64) (*models.Attachment, error)) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	attachment, err := fetch(contact)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	writeAttachment(c, attachment)
}

func (h *Handler) deleteRecipientAttachment(c *gin.Context, msg string, clear func(int64) error) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	if err := clear(contact); err != nil {
		shared.RespondError(c, err)
		return
	}
	response.SuccessWithMsg(c, msg, nil)
}

func (h *Handler) validateRecipientAttachment(c *gin.Context, validate func(int64) (*models.Attachment, error)) {
	contact, ok := shared.ParseKeyParam(c, "recipient_contact")
	if !ok {
		return
	}
	meta, err := validate(contact)
	if err != nil {
		shared.RespondError(c, err)
		return
	}
	response.Success(c, meta)
}
