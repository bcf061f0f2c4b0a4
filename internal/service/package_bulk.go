package service

import (
	"fmt"
	"time"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/metrics"
	"github.com/parcelkeep/internal/models"

	"gorm.io/gorm"
)

// PackageUpdate 批量更新中的单项
type PackageUpdate struct {
	TrackingNumber int64
	Fields         PackageInput
}

// PackageBulkUpdateResult 批量更新结果
type PackageBulkUpdateResult struct {
	UpdatedPackages []models.Package `json:"updated_packages"`
	NotFoundNumbers []int64          `json:"not_found_numbers"`
}

// AddMany 批量创建包裹：先校验全部收件人，再在单个事务内分配连续追踪号并写入
func (s *PackageService) AddMany(items []PackageInput) ([]models.Package, error) {
	return s.addMany(items, constants.PackageEventSourceBulkAdd)
}

func (s *PackageService) addMany(items []PackageInput, source string) ([]models.Package, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := s.resolveRecipients(items); err != nil {
		return nil, err
	}

	pkgs := make([]models.Package, len(items))
	err := s.allocator.Allocate(len(items), func(tx *gorm.DB, first int64) error {
		now := time.Now()
		for i, item := range items {
			if err := validatePackageInput(item, true); err != nil {
				return &BulkItemError{Index: i + 1, Err: err}
			}
			pkg := models.Package{}
			applyPackageInput(&pkg, item, true)
			if pkg.SendDate.IsZero() {
				pkg.SendDate = now
			}
			pkg.TrackingNumber = first + int64(i)
			pkgs[i] = pkg
		}
		return s.packageRepo.WithTx(tx).CreateBatch(pkgs)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("add_many_packages").Inc()
		logger.Errorw("package_bulk_insert_failed", "count", len(items), "source", source, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBulkInsertFailed, err)
	}

	metrics.PackagesCreatedTotal.WithLabelValues(source).Add(float64(len(pkgs)))
	logger.Infow("package_bulk_inserted",
		"count", len(pkgs),
		"first_tracking_number", pkgs[0].TrackingNumber,
		"source", source,
	)
	for _, pkg := range pkgs {
		s.events.Record(pkg.TrackingNumber, pkg.Status, "", source)
	}
	return pkgs, nil
}

// resolveRecipients 每一项的收件人都必须存在，否则返回首个失败项（1 起始）
func (s *PackageService) resolveRecipients(items []PackageInput) error {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.RecipientID != nil && *item.RecipientID != 0 {
			ids = append(ids, *item.RecipientID)
		}
	}
	existing, err := s.recipientRepo.ListExistingIDs(ids)
	if err != nil {
		return err
	}
	found := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	for i, item := range items {
		if item.RecipientID == nil {
			return &BulkItemError{Index: i + 1, Err: ErrRecipientNotFound}
		}
		if _, ok := found[*item.RecipientID]; !ok {
			return &BulkItemError{Index: i + 1, Err: ErrRecipientNotFound}
		}
	}
	return nil
}

// DeleteMany 批量删除包裹，只删除存在的部分，其余作为未找到返回
func (s *PackageService) DeleteMany(trackingNumbers []int64) (*BulkDeleteResult, error) {
	if len(trackingNumbers) == 0 {
		return nil, ErrInvalidKeys
	}
	trackingNumbers = uniqueKeys(trackingNumbers)
	result := &BulkDeleteResult{}
	var existing []int64
	err := s.packageRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		existing, err = s.packageRepo.WithTx(tx).ListExistingTrackingNumbers(trackingNumbers)
		if err != nil {
			return err
		}
		deleted, err := s.packageRepo.WithTx(tx).DeleteByTrackingNumbers(existing)
		if err != nil {
			return err
		}
		result.DeletedCount = deleted
		return s.eventRepo.WithTx(tx).DeleteByTrackingNumbers(existing)
	})
	if err != nil {
		return nil, err
	}
	result.NotFoundNumbers = partitionKeys(trackingNumbers, existing)
	metrics.PackagesDeletedTotal.Add(float64(result.DeletedCount))
	logger.Infow("package_bulk_deleted",
		"deleted_count", result.DeletedCount,
		"not_found_count", len(result.NotFoundNumbers),
	)
	return result, nil
}

// UpdateMany 逐项部分更新；首个校验失败时停止并返回已生效的部分结果，不回滚
func (s *PackageService) UpdateMany(updates []PackageUpdate) (*PackageBulkUpdateResult, error) {
	if len(updates) == 0 {
		return nil, ErrEmptyBatch
	}
	result := &PackageBulkUpdateResult{
		UpdatedPackages: make([]models.Package, 0, len(updates)),
		NotFoundNumbers: make([]int64, 0),
	}
	for i, update := range updates {
		if update.TrackingNumber <= 0 || update.Fields.IsEmpty() {
			return result, &BulkItemError{Index: i + 1, Err: ErrInvalidUpdate, Result: result}
		}
		existing, err := s.packageRepo.FindByTrackingNumber(update.TrackingNumber)
		if err != nil {
			return result, err
		}
		if existing == nil {
			result.NotFoundNumbers = append(result.NotFoundNumbers, update.TrackingNumber)
			continue
		}
		if err := validatePackageInput(update.Fields, false); err != nil {
			return result, &BulkItemError{Index: i + 1, Err: err, Result: result}
		}
		if update.Fields.RecipientID != nil && *update.Fields.RecipientID != existing.RecipientID {
			if err := s.ensureRecipientExists(*update.Fields.RecipientID); err != nil {
				return result, &BulkItemError{Index: i + 1, Err: err, Result: result}
			}
		}

		previousStatus := existing.Status
		applyPackageInput(existing, update.Fields, false)
		if err := s.packageRepo.Update(existing); err != nil {
			return result, err
		}
		s.events.Record(existing.TrackingNumber, existing.Status, previousStatus, constants.PackageEventSourceBulkUpdate)
		result.UpdatedPackages = append(result.UpdatedPackages, *existing)
	}
	logger.Infow("package_bulk_updated",
		"updated_count", len(result.UpdatedPackages),
		"not_found_count", len(result.NotFoundNumbers),
	)
	return result, nil
}
