package repository

import (
	"errors"
	"strings"

	"github.com/parcelkeep/internal/models"

	"gorm.io/gorm"
)

// RecipientRepository 收件人数据访问接口
type RecipientRepository interface {
	List(filter RecipientListFilter) ([]models.Recipient, int64, error)
	GetByID(id uint) (*models.Recipient, error)
	GetByContact(contact int64) (*models.Recipient, error)
	FindByContact(contact int64) (*models.Recipient, error)
	ListExistingIDs(ids []uint) ([]uint, error)
	CountByContact(contact int64, excludeID uint) (int64, error)
	Create(recipient *models.Recipient) error
	CreateBatch(recipients []models.Recipient) error
	Update(recipient *models.Recipient) error
	DeleteByContact(contact int64) (int64, error)
	ListExistingContacts(contacts []int64) ([]int64, error)
	DeleteByContacts(contacts []int64) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) RecipientRepository
}

// GormRecipientRepository GORM 实现
type GormRecipientRepository struct {
	db *gorm.DB
}

// NewRecipientRepository 创建收件人仓库
func NewRecipientRepository(db *gorm.DB) *GormRecipientRepository {
	return &GormRecipientRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRecipientRepository) WithTx(tx *gorm.DB) RecipientRepository {
	if tx == nil {
		return r
	}
	return &GormRecipientRepository{db: tx}
}

// Transaction 执行事务
func (r *GormRecipientRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 收件人列表（不加载附件二进制）
func (r *GormRecipientRepository) List(filter RecipientListFilter) ([]models.Recipient, int64, error) {
	var recipients []models.Recipient

	query := r.db.Model(&models.Recipient{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"recipient_name", "recipient_email", "address"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	total, err := findPage(query, filter.Page, filter.PageSize, "id ASC", models.RecipientBlobColumns, &recipients)
	if err != nil {
		return nil, 0, err
	}
	return recipients, total, nil
}

// GetByID 根据主键获取收件人（不含附件二进制）
func (r *GormRecipientRepository) GetByID(id uint) (*models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.Omit(models.RecipientBlobColumns...).First(&recipient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

// GetByContact 根据联系电话获取收件人（不含附件二进制）
func (r *GormRecipientRepository) GetByContact(contact int64) (*models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.Omit(models.RecipientBlobColumns...).
		Where("recipient_contact = ?", contact).
		First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

// FindByContact 根据联系电话获取完整收件人行，供写操作使用
func (r *GormRecipientRepository) FindByContact(contact int64) (*models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.Where("recipient_contact = ?", contact).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

// ListExistingIDs 返回给定主键中已存在的部分
func (r *GormRecipientRepository) ListExistingIDs(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return []uint{}, nil
	}
	var existing []uint
	if err := r.db.Model(&models.Recipient{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// CountByContact 统计联系电话占用数量，excludeID 非 0 时排除自身
func (r *GormRecipientRepository) CountByContact(contact int64, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Recipient{}).Where("recipient_contact = ?", contact)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建收件人
func (r *GormRecipientRepository) Create(recipient *models.Recipient) error {
	return r.db.Create(recipient).Error
}

// CreateBatch 批量创建收件人
func (r *GormRecipientRepository) CreateBatch(recipients []models.Recipient) error {
	if len(recipients) == 0 {
		return nil
	}
	return r.db.Create(&recipients).Error
}

// Update 全量保存收件人
func (r *GormRecipientRepository) Update(recipient *models.Recipient) error {
	return r.db.Save(recipient).Error
}

// DeleteByContact 根据联系电话删除收件人（不级联包裹）
func (r *GormRecipientRepository) DeleteByContact(contact int64) (int64, error) {
	result := r.db.Where("recipient_contact = ?", contact).Delete(&models.Recipient{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListExistingContacts 返回给定联系电话中已存在的部分
func (r *GormRecipientRepository) ListExistingContacts(contacts []int64) ([]int64, error) {
	if len(contacts) == 0 {
		return []int64{}, nil
	}
	var existing []int64
	if err := r.db.Model(&models.Recipient{}).
		Where("recipient_contact IN ?", contacts).
		Order("recipient_contact ASC").
		Pluck("recipient_contact", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteByContacts 批量删除收件人
func (r *GormRecipientRepository) DeleteByContacts(contacts []int64) (int64, error) {
	if len(contacts) == 0 {
		return 0, nil
	}
	result := r.db.Where("recipient_contact IN ?", contacts).Delete(&models.Recipient{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
