package service

import (
	"errors"
	"strings"
	"time"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/metrics"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/repository"
	"github.com/parcelkeep/internal/validation"

	"gorm.io/gorm"
)

// PackageService 包裹业务服务
type PackageService struct {
	packageRepo   repository.PackageRepository
	recipientRepo repository.RecipientRepository
	eventRepo     repository.PackageEventRepository
	allocator     *TrackingAllocator
	events        *PackageEventService
}

// NewPackageService 创建包裹服务
func NewPackageService(
	packageRepo repository.PackageRepository,
	recipientRepo repository.RecipientRepository,
	eventRepo repository.PackageEventRepository,
	allocator *TrackingAllocator,
	events *PackageEventService,
) *PackageService {
	return &PackageService{
		packageRepo:   packageRepo,
		recipientRepo: recipientRepo,
		eventRepo:     eventRepo,
		allocator:     allocator,
		events:        events,
	}
}

// PackageInput 创建/替换/批量更新包裹输入，nil 表示未提供
type PackageInput struct {
	Status        *string    `json:"status"`
	SendDate      *time.Time `json:"send_date"`
	SenderName    *string    `json:"sender_name"`
	RecipientID   *uint      `json:"recipient_id"`
	Origin        *string    `json:"origin"`
	Destination   *string    `json:"destination"`
	Description   *string    `json:"description"`
	PackageWeight *float64   `json:"package_weight"`
	Price         *float64   `json:"price"`
}

// IsEmpty 是否未提供任何字段
func (in PackageInput) IsEmpty() bool {
	return in.Status == nil && in.SendDate == nil && in.SenderName == nil && in.RecipientID == nil &&
		in.Origin == nil && in.Destination == nil && in.Description == nil &&
		in.PackageWeight == nil && in.Price == nil
}

// List 包裹列表
func (s *PackageService) List(filter repository.PackageListFilter) ([]models.Package, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.packageRepo.List(filter)
}

// Get 根据追踪号获取包裹（含收件人）
func (s *PackageService) Get(trackingNumber int64) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

// Create 创建包裹，追踪号由分配器生成
func (s *PackageService) Create(input PackageInput) (*models.Package, error) {
	if err := validatePackageInput(input, true); err != nil {
		return nil, err
	}
	if err := s.ensureRecipientExists(*input.RecipientID); err != nil {
		return nil, err
	}

	pkg := &models.Package{}
	applyPackageInput(pkg, input, true)
	if pkg.SendDate.IsZero() {
		pkg.SendDate = time.Now()
	}

	err := s.allocator.Allocate(1, func(tx *gorm.DB, first int64) error {
		pkg.ID = 0
		pkg.TrackingNumber = first
		return s.packageRepo.WithTx(tx).Create(pkg)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_package").Inc()
		return nil, err
	}

	metrics.PackagesCreatedTotal.WithLabelValues(constants.WriteSourceAPI).Inc()
	logger.Infow("package_created", "tracking_number", pkg.TrackingNumber, "recipient_id", pkg.RecipientID)
	s.events.Record(pkg.TrackingNumber, pkg.Status, "", constants.PackageEventSourceCreate)
	return s.Get(pkg.TrackingNumber)
}

// Replace 全量覆盖包裹字段（追踪号与证件附件除外）
func (s *PackageService) Replace(trackingNumber int64, input PackageInput) (*models.Package, error) {
	existing, err := s.packageRepo.FindByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPackageNotFound
	}
	if err := validatePackageInput(input, true); err != nil {
		return nil, err
	}
	if err := s.ensureRecipientExists(*input.RecipientID); err != nil {
		return nil, err
	}

	previousStatus := existing.Status
	applyPackageInput(existing, input, true)
	existing.Recipient = nil
	if err := s.packageRepo.Update(existing); err != nil {
		return nil, err
	}
	s.events.Record(trackingNumber, existing.Status, previousStatus, constants.PackageEventSourceReplace)
	return s.Get(trackingNumber)
}

// PatchStatus 仅更新包裹状态
func (s *PackageService) PatchStatus(trackingNumber int64, status *string) (*models.Package, error) {
	existing, err := s.packageRepo.FindByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPackageNotFound
	}
	if status == nil {
		return nil, observeValidation(validation.Required("status"))
	}
	if err := validation.Check("status", validation.KindStatus, *status); err != nil {
		return nil, observeValidation(err)
	}

	previousStatus := existing.Status
	existing.Status = *status
	if err := s.packageRepo.Update(existing); err != nil {
		return nil, err
	}
	s.events.Record(trackingNumber, existing.Status, previousStatus, constants.PackageEventSourcePatch)
	return s.Get(trackingNumber)
}

// Delete 删除包裹及其状态记录
func (s *PackageService) Delete(trackingNumber int64) error {
	err := s.packageRepo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.packageRepo.WithTx(tx).DeleteByTrackingNumber(trackingNumber)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPackageNotFound
		}
		return s.eventRepo.WithTx(tx).DeleteByTrackingNumbers([]int64{trackingNumber})
	})
	if err != nil {
		return err
	}
	metrics.PackagesDeletedTotal.Inc()
	logger.Infow("package_deleted", "tracking_number", trackingNumber)
	return nil
}

// Events 包裹状态记录
func (s *PackageService) Events(trackingNumber int64) ([]models.PackageEvent, error) {
	return s.events.List(trackingNumber)
}

// AttachIDProof 写入证件附件，写入后回读并复核附件策略
func (s *PackageService) AttachIDProof(trackingNumber int64, upload models.Attachment) (*models.Package, error) {
	existing, err := s.packageRepo.FindByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPackageNotFound
	}
	if err := requireAttachment(constants.AttachmentKindIDProof, constants.AttachmentKindIDProof, upload); err != nil {
		return nil, err
	}

	existing.IDProof = upload
	existing.Recipient = nil
	if err := s.packageRepo.Update(existing); err != nil {
		return nil, err
	}

	stored, err := s.packageRepo.FindByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrPackageNotFound
	}
	if err := stored.IDProof.Validate(constants.AttachmentKindIDProof, constants.AttachmentKindIDProof); err != nil {
		logger.Errorw("package_id_proof_post_write_invalid", "tracking_number", trackingNumber, "error", err)
		return nil, err
	}
	metrics.AttachmentsStoredTotal.WithLabelValues("package", constants.AttachmentKindIDProof).Inc()
	logger.Infow("package_id_proof_uploaded",
		"tracking_number", trackingNumber,
		"content_type", stored.IDProof.ContentType,
		"size", stored.IDProof.Size,
	)
	return s.Get(trackingNumber)
}

// FetchIDProof 获取证件附件原始内容
func (s *PackageService) FetchIDProof(trackingNumber int64) (*models.Attachment, error) {
	existing, err := s.packageRepo.FindByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		logger.Infow("package_id_proof_package_missing", "tracking_number", trackingNumber)
		return nil, ErrPackageNotFound
	}
	if !existing.IDProof.HasData() {
		logger.Infow("package_id_proof_empty", "tracking_number", trackingNumber)
		return nil, ErrIDProofNotFound
	}
	attachment := existing.IDProof
	return &attachment, nil
}

// DeleteIDProof 清空证件附件，重复调用幂等
func (s *PackageService) DeleteIDProof(trackingNumber int64) error {
	existing, err := s.packageRepo.FindByTrackingNumber(trackingNumber)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPackageNotFound
	}
	if existing.IDProof.IsEmpty() {
		return nil
	}
	existing.IDProof = models.Attachment{}
	if err := s.packageRepo.Update(existing); err != nil {
		return err
	}
	logger.Infow("package_id_proof_deleted", "tracking_number", trackingNumber)
	return nil
}

// ValidateIDProof 对已存储的证件附件重新执行附件策略
func (s *PackageService) ValidateIDProof(trackingNumber int64) (*models.Attachment, error) {
	attachment, err := s.FetchIDProof(trackingNumber)
	if err != nil {
		return nil, err
	}
	if err := attachment.Validate(constants.AttachmentKindIDProof, constants.AttachmentKindIDProof); err != nil {
		return nil, err
	}
	return attachment.Meta(), nil
}

func (s *PackageService) ensureRecipientExists(recipientID uint) error {
	recipient, err := s.recipientRepo.GetByID(recipientID)
	if err != nil {
		return err
	}
	if recipient == nil {
		return ErrRecipientNotFound
	}
	return nil
}

// validatePackageInput 校验包裹输入；full 为 true 时要求全部必填字段
func validatePackageInput(input PackageInput, full bool) error {
	if full {
		switch {
		case input.Status == nil:
			return observeValidation(validation.Required("status"))
		case input.SenderName == nil:
			return observeValidation(validation.Required("sender_name"))
		case input.RecipientID == nil || *input.RecipientID == 0:
			return observeValidation(validation.Required("recipient_id"))
		case input.Origin == nil:
			return observeValidation(validation.Required("origin"))
		case input.Destination == nil:
			return observeValidation(validation.Required("destination"))
		case input.PackageWeight == nil:
			return observeValidation(validation.Required("package_weight"))
		case input.Price == nil:
			return observeValidation(validation.Required("price"))
		}
	}

	fields := make([]validation.Field, 0, 6)
	if input.Status != nil {
		fields = append(fields, validation.Field{Name: "status", Kind: validation.KindStatus, Value: *input.Status})
	}
	if input.SenderName != nil {
		fields = append(fields, validation.Field{Name: "sender_name", Kind: validation.KindName, Value: *input.SenderName})
	}
	if input.Origin != nil {
		fields = append(fields, validation.Field{Name: "origin", Kind: validation.KindName, Value: *input.Origin})
	}
	if input.Destination != nil {
		fields = append(fields, validation.Field{Name: "destination", Kind: validation.KindName, Value: *input.Destination})
	}
	if input.PackageWeight != nil {
		fields = append(fields, validation.Field{Name: "package_weight", Kind: validation.KindAmount, Value: *input.PackageWeight})
	}
	if input.Price != nil {
		fields = append(fields, validation.Field{Name: "price", Kind: validation.KindAmount, Value: *input.Price})
	}
	if input.RecipientID != nil && *input.RecipientID == 0 {
		return observeValidation(validation.Required("recipient_id"))
	}
	return observeValidation(validation.Validate(fields...))
}

// applyPackageInput 写入已提供字段；full 为 true 时未提供的描述被清空
func applyPackageInput(pkg *models.Package, input PackageInput, full bool) {
	if input.Status != nil {
		pkg.Status = *input.Status
	}
	if input.SendDate != nil && !input.SendDate.IsZero() {
		pkg.SendDate = *input.SendDate
	}
	if input.SenderName != nil {
		pkg.SenderName = *input.SenderName
	}
	if input.RecipientID != nil {
		pkg.RecipientID = *input.RecipientID
	}
	if input.Origin != nil {
		pkg.Origin = *input.Origin
	}
	if input.Destination != nil {
		pkg.Destination = *input.Destination
	}
	if input.Description != nil {
		pkg.Description = *input.Description
	} else if full {
		pkg.Description = ""
	}
	if input.PackageWeight != nil {
		pkg.PackageWeight = *input.PackageWeight
	}
	if input.Price != nil {
		pkg.Price = *input.Price
	}
}

// requireAttachment 上传时附件必须携带内容，再按附件类型校验
func requireAttachment(field, kind string, upload models.Attachment) error {
	if upload.IsEmpty() {
		return &validation.AttachmentError{
			Field:   field,
			Cause:   validation.CauseMissing,
			Message: field + " data is required",
		}
	}
	return upload.Validate(field, kind)
}

// observeValidation 统计字段校验失败
func observeValidation(err error) error {
	if err == nil {
		return nil
	}
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		metrics.ValidationFailuresTotal.WithLabelValues(fieldErr.Field).Inc()
	}
	return err
}
