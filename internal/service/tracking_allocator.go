package service

import (
	"fmt"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/metrics"
	"github.com/parcelkeep/internal/repository"

	"gorm.io/gorm"
)

// TrackingAllocator 追踪号分配器：无进程内状态，每次从库中读取当前最大值
type TrackingAllocator struct {
	repo        repository.PackageRepository
	maxAttempts int
}

// NewTrackingAllocator 创建追踪号分配器
func NewTrackingAllocator(repo repository.PackageRepository, maxAttempts int) *TrackingAllocator {
	if maxAttempts <= 0 {
		maxAttempts = constants.DefaultTrackingAllocationAttempts
	}
	return &TrackingAllocator{repo: repo, maxAttempts: maxAttempts}
}

// Next 返回 MAX(tracking_number)+1，空表返回 1
func (a *TrackingAllocator) Next(repo repository.PackageRepository) (int64, error) {
	if repo == nil {
		repo = a.repo
	}
	current, err := repo.MaxTrackingNumber()
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// Block 为 count 个包裹分配连续号段，返回首号；只查询一次
func (a *TrackingAllocator) Block(repo repository.PackageRepository, count int) (int64, error) {
	if count <= 0 {
		return 0, fmt.Errorf("invalid tracking block size: %d", count)
	}
	return a.Next(repo)
}

// Allocate 在同一事务内分配号段并执行写入；唯一索引冲突时整体重试
func (a *TrackingAllocator) Allocate(count int, insert func(tx *gorm.DB, first int64) error) error {
	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		err := a.repo.Transaction(func(tx *gorm.DB) error {
			first, err := a.Block(a.repo.WithTx(tx), count)
			if err != nil {
				return err
			}
			return insert(tx, first)
		})
		if err == nil {
			return nil
		}
		if !repository.IsUniqueViolation(err) {
			return err
		}
		lastErr = err
		metrics.TrackingAllocationRetriesTotal.Inc()
		logger.Warnw("tracking_allocation_conflict",
			"attempt", attempt,
			"max_attempts", a.maxAttempts,
			"count", count,
			"error", err,
		)
	}
	return fmt.Errorf("%w: %v", ErrTrackingAllocationExhausted, lastErr)
}
