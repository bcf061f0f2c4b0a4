package repository

import (
	"errors"
	"strings"

	"github.com/parcelkeep/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PackageRepository 包裹数据访问接口
type PackageRepository interface {
	List(filter PackageListFilter) ([]models.Package, int64, error)
	GetByTrackingNumber(trackingNumber int64) (*models.Package, error)
	FindByTrackingNumber(trackingNumber int64) (*models.Package, error)
	MaxTrackingNumber() (int64, error)
	Create(pkg *models.Package) error
	CreateBatch(pkgs []models.Package) error
	Update(pkg *models.Package) error
	DeleteByTrackingNumber(trackingNumber int64) (int64, error)
	ListExistingTrackingNumbers(trackingNumbers []int64) ([]int64, error)
	DeleteByTrackingNumbers(trackingNumbers []int64) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PackageRepository
}

// GormPackageRepository GORM 实现
type GormPackageRepository struct {
	db *gorm.DB
}

// NewPackageRepository 创建包裹仓库
func NewPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPackageRepository) WithTx(tx *gorm.DB) PackageRepository {
	if tx == nil {
		return r
	}
	return &GormPackageRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPackageRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 包裹列表（不加载附件二进制）
func (r *GormPackageRepository) List(filter PackageListFilter) ([]models.Package, int64, error) {
	var pkgs []models.Package

	query := r.db.Model(&models.Package{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.RecipientID != 0 {
		query = query.Where("recipient_id = ?", filter.RecipientID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"sender_name", "origin", "destination"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	total, err := findPage(query, filter.Page, filter.PageSize, "tracking_number ASC", []string{"id_proof_data"}, &pkgs)
	if err != nil {
		return nil, 0, err
	}
	return pkgs, total, nil
}

// GetByTrackingNumber 根据追踪号获取包裹（预加载收件人，不含附件二进制）
func (r *GormPackageRepository) GetByTrackingNumber(trackingNumber int64) (*models.Package, error) {
	var pkg models.Package
	err := r.db.Omit("id_proof_data").
		Preload("Recipient", func(db *gorm.DB) *gorm.DB {
			return db.Omit(models.RecipientBlobColumns...)
		}).
		Where("tracking_number = ?", trackingNumber).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

// FindByTrackingNumber 根据追踪号获取完整包裹行，供写操作使用
func (r *GormPackageRepository) FindByTrackingNumber(trackingNumber int64) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.Where("tracking_number = ?", trackingNumber).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

// MaxTrackingNumber 当前最大追踪号，空表返回 0
func (r *GormPackageRepository) MaxTrackingNumber() (int64, error) {
	var latest []models.Package
	if err := r.db.Select("tracking_number").
		Order("tracking_number DESC").
		Limit(1).
		Find(&latest).Error; err != nil {
		return 0, err
	}
	if len(latest) == 0 {
		return 0, nil
	}
	return latest[0].TrackingNumber, nil
}

// Create 创建包裹
func (r *GormPackageRepository) Create(pkg *models.Package) error {
	return r.db.Omit(clause.Associations).Create(pkg).Error
}

// CreateBatch 批量创建包裹
func (r *GormPackageRepository) CreateBatch(pkgs []models.Package) error {
	if len(pkgs) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&pkgs).Error
}

// Update 全量保存包裹（不级联收件人）
func (r *GormPackageRepository) Update(pkg *models.Package) error {
	return r.db.Omit(clause.Associations).Save(pkg).Error
}

// DeleteByTrackingNumber 根据追踪号删除包裹
func (r *GormPackageRepository) DeleteByTrackingNumber(trackingNumber int64) (int64, error) {
	result := r.db.Where("tracking_number = ?", trackingNumber).Delete(&models.Package{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListExistingTrackingNumbers 返回给定追踪号中已存在的部分
func (r *GormPackageRepository) ListExistingTrackingNumbers(trackingNumbers []int64) ([]int64, error) {
	if len(trackingNumbers) == 0 {
		return []int64{}, nil
	}
	var existing []int64
	if err := r.db.Model(&models.Package{}).
		Where("tracking_number IN ?", trackingNumbers).
		Order("tracking_number ASC").
		Pluck("tracking_number", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteByTrackingNumbers 批量删除包裹
func (r *GormPackageRepository) DeleteByTrackingNumbers(trackingNumbers []int64) (int64, error) {
	if len(trackingNumbers) == 0 {
		return 0, nil
	}
	result := r.db.Where("tracking_number IN ?", trackingNumbers).Delete(&models.Package{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
