package service

import (
	"strings"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/metrics"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/repository"
	"github.com/parcelkeep/internal/validation"
)

// RecipientService 收件人业务服务
type RecipientService struct {
	repo repository.RecipientRepository
}

// NewRecipientService 创建收件人服务
func NewRecipientService(repo repository.RecipientRepository) *RecipientService {
	return &RecipientService{repo: repo}
}

// RecipientInput 创建/替换/部分更新收件人输入，nil 表示未提供
type RecipientInput struct {
	RecipientName    *string `json:"recipient_name"`
	RecipientEmail   *string `json:"recipient_email"`
	RecipientContact *int64  `json:"recipient_contact"`
	Address          *string `json:"address"`
}

// IsEmpty 是否未提供任何字段
func (in RecipientInput) IsEmpty() bool {
	return in.RecipientName == nil && in.RecipientEmail == nil && in.RecipientContact == nil && in.Address == nil
}

// attachmentSlot 收件人附件位
type attachmentSlot struct {
	kind     string
	notFound error
	get      func(r *models.Recipient) *models.Attachment
}

var (
	recipientIDProofSlot = attachmentSlot{
		kind:     constants.AttachmentKindIDProof,
		notFound: ErrIDProofNotFound,
		get:      func(r *models.Recipient) *models.Attachment { return &r.IDProof },
	}
	recipientImageSlot = attachmentSlot{
		kind:     constants.AttachmentKindImage,
		notFound: ErrImageNotFound,
		get:      func(r *models.Recipient) *models.Attachment { return &r.Image },
	}
)

// List 收件人列表
func (s *RecipientService) List(filter repository.RecipientListFilter) ([]models.Recipient, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(filter)
}

// Get 根据联系电话获取收件人
func (s *RecipientService) Get(contact int64) (*models.Recipient, error) {
	recipient, err := s.repo.GetByContact(contact)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrRecipientNotFound
	}
	return recipient, nil
}

// Create 创建收件人
func (s *RecipientService) Create(input RecipientInput) (*models.Recipient, error) {
	if err := validateRecipientInput(input, true); err != nil {
		return nil, err
	}
	if err := s.ensureContactAvailable(*input.RecipientContact, 0); err != nil {
		return nil, err
	}

	recipient := &models.Recipient{}
	applyRecipientInput(recipient, input)
	if err := s.repo.Create(recipient); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRecipientContactTaken
		}
		return nil, err
	}
	metrics.RecipientsCreatedTotal.WithLabelValues(constants.WriteSourceAPI).Inc()
	logger.Infow("recipient_created", "recipient_id", recipient.ID, "recipient_contact", recipient.RecipientContact)
	return s.Get(recipient.RecipientContact)
}

// Replace 全量覆盖收件人字段（附件除外）
func (s *RecipientService) Replace(contact int64, input RecipientInput) (*models.Recipient, error) {
	existing, err := s.repo.FindByContact(contact)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRecipientNotFound
	}
	if err := validateRecipientInput(input, true); err != nil {
		return nil, err
	}
	return s.save(existing, input)
}

// PatchFields 部分更新收件人，只校验提供的字段
func (s *RecipientService) PatchFields(contact int64, input RecipientInput) (*models.Recipient, error) {
	existing, err := s.repo.FindByContact(contact)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRecipientNotFound
	}
	if err := validateRecipientInput(input, false); err != nil {
		return nil, err
	}
	return s.save(existing, input)
}

// Delete 删除收件人，不级联包裹
func (s *RecipientService) Delete(contact int64) error {
	affected, err := s.repo.DeleteByContact(contact)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecipientNotFound
	}
	metrics.RecipientsDeletedTotal.Inc()
	logger.Infow("recipient_deleted", "recipient_contact", contact)
	return nil
}

// AttachIDProof 写入收件人证件附件
func (s *RecipientService) AttachIDProof(contact int64, upload models.Attachment) (*models.Recipient, error) {
	return s.attach(contact, recipientIDProofSlot, upload)
}

// FetchIDProof 获取收件人证件附件
func (s *RecipientService) FetchIDProof(contact int64) (*models.Attachment, error) {
	return s.fetch(contact, recipientIDProofSlot)
}

// DeleteIDProof 清空收件人证件附件
func (s *RecipientService) DeleteIDProof(contact int64) error {
	return s.clear(contact, recipientIDProofSlot)
}

// ValidateIDProof 复核收件人证件附件
func (s *RecipientService) ValidateIDProof(contact int64) (*models.Attachment, error) {
	return s.revalidate(contact, recipientIDProofSlot)
}

// AttachImage 写入收件人图片
func (s *RecipientService) AttachImage(contact int64, upload models.Attachment) (*models.Recipient, error) {
	return s.attach(contact, recipientImageSlot, upload)
}

// FetchImage 获取收件人图片
func (s *RecipientService) FetchImage(contact int64) (*models.Attachment, error) {
	return s.fetch(contact, recipientImageSlot)
}

// DeleteImage 清空收件人图片
func (s *RecipientService) DeleteImage(contact int64) error {
	return s.clear(contact, recipientImageSlot)
}

// ValidateImage 复核收件人图片
func (s *RecipientService) ValidateImage(contact int64) (*models.Attachment, error) {
	return s.revalidate(contact, recipientImageSlot)
}

func (s *RecipientService) save(existing *models.Recipient, input RecipientInput) (*models.Recipient, error) {
	if input.RecipientContact != nil && *input.RecipientContact != existing.RecipientContact {
		if err := s.ensureContactAvailable(*input.RecipientContact, existing.ID); err != nil {
			return nil, err
		}
	}
	applyRecipientInput(existing, input)
	if err := s.repo.Update(existing); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRecipientContactTaken
		}
		return nil, err
	}
	return s.Get(existing.RecipientContact)
}

func (s *RecipientService) ensureContactAvailable(contact int64, excludeID uint) error {
	count, err := s.repo.CountByContact(contact, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRecipientContactTaken
	}
	return nil
}

func (s *RecipientService) attach(contact int64, slot attachmentSlot, upload models.Attachment) (*models.Recipient, error) {
	existing, err := s.repo.FindByContact(contact)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRecipientNotFound
	}
	if err := requireAttachment(slot.kind, slot.kind, upload); err != nil {
		return nil, err
	}

	*slot.get(existing) = upload
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByContact(contact)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrRecipientNotFound
	}
	if err := slot.get(stored).Validate(slot.kind, slot.kind); err != nil {
		logger.Errorw("recipient_attachment_post_write_invalid", "recipient_contact", contact, "kind", slot.kind, "error", err)
		return nil, err
	}
	metrics.AttachmentsStoredTotal.WithLabelValues("recipient", slot.kind).Inc()
	logger.Infow("recipient_attachment_uploaded",
		"recipient_contact", contact,
		"kind", slot.kind,
		"content_type", slot.get(stored).ContentType,
		"size", slot.get(stored).Size,
	)
	return s.Get(contact)
}

func (s *RecipientService) fetch(contact int64, slot attachmentSlot) (*models.Attachment, error) {
	existing, err := s.repo.FindByContact(contact)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		logger.Infow("recipient_attachment_recipient_missing", "recipient_contact", contact, "kind", slot.kind)
		return nil, ErrRecipientNotFound
	}
	attachment := *slot.get(existing)
	if !attachment.HasData() {
		logger.Infow("recipient_attachment_empty", "recipient_contact", contact, "kind", slot.kind)
		return nil, slot.notFound
	}
	return &attachment, nil
}

func (s *RecipientService) clear(contact int64, slot attachmentSlot) error {
	existing, err := s.repo.FindByContact(contact)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrRecipientNotFound
	}
	if slot.get(existing).IsEmpty() {
		return nil
	}
	*slot.get(existing) = models.Attachment{}
	if err := s.repo.Update(existing); err != nil {
		return err
	}
	logger.Infow("recipient_attachment_deleted", "recipient_contact", contact, "kind", slot.kind)
	return nil
}

func (s *RecipientService) revalidate(contact int64, slot attachmentSlot) (*models.Attachment, error) {
	attachment, err := s.fetch(contact, slot)
	if err != nil {
		return nil, err
	}
	if err := attachment.Validate(slot.kind, slot.kind); err != nil {
		return nil, err
	}
	return attachment.Meta(), nil
}

// validateRecipientInput 校验收件人输入；full 为 true 时四个字段均必填
func validateRecipientInput(input RecipientInput, full bool) error {
	if full {
		switch {
		case input.RecipientName == nil:
			return observeValidation(validation.Required("recipient_name"))
		case input.RecipientEmail == nil:
			return observeValidation(validation.Required("recipient_email"))
		case input.RecipientContact == nil:
			return observeValidation(validation.Required("recipient_contact"))
		case input.Address == nil:
			return observeValidation(validation.Required("address"))
		}
	}

	fields := make([]validation.Field, 0, 4)
	if input.RecipientName != nil {
		fields = append(fields, validation.Field{Name: "recipient_name", Kind: validation.KindName, Value: *input.RecipientName})
	}
	if input.RecipientEmail != nil {
		fields = append(fields, validation.Field{Name: "recipient_email", Kind: validation.KindEmail, Value: *input.RecipientEmail})
	}
	if input.RecipientContact != nil {
		fields = append(fields, validation.Field{Name: "recipient_contact", Kind: validation.KindContact, Value: *input.RecipientContact})
	}
	if input.Address != nil {
		fields = append(fields, validation.Field{Name: "address", Kind: validation.KindAddress, Value: *input.Address})
	}
	return observeValidation(validation.Validate(fields...))
}

func applyRecipientInput(recipient *models.Recipient, input RecipientInput) {
	if input.RecipientName != nil {
		recipient.RecipientName = *input.RecipientName
	}
	if input.RecipientEmail != nil {
		recipient.RecipientEmail = *input.RecipientEmail
	}
	if input.RecipientContact != nil {
		recipient.RecipientContact = *input.RecipientContact
	}
	if input.Address != nil {
		recipient.Address = *input.Address
	}
}
