package service

import (
	"strings"
	"time"

	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/queue"
	"github.com/parcelkeep/internal/repository"
)

// PackageEventService 包裹状态流转记录服务
type PackageEventService struct {
	eventRepo   repository.PackageEventRepository
	packageRepo repository.PackageRepository
	queueClient *queue.Client
}

// NewPackageEventService 创建状态记录服务
func NewPackageEventService(eventRepo repository.PackageEventRepository, packageRepo repository.PackageRepository, queueClient *queue.Client) *PackageEventService {
	return &PackageEventService{
		eventRepo:   eventRepo,
		packageRepo: packageRepo,
		queueClient: queueClient,
	}
}

// Record 记录一次状态变化：队列可用时异步写入，否则同步写入。记录失败不影响主流程。
func (s *PackageEventService) Record(trackingNumber int64, status, previousStatus, source string) {
	if s == nil || trackingNumber <= 0 {
		return
	}
	status = strings.TrimSpace(status)
	if status == "" || status == strings.TrimSpace(previousStatus) {
		return
	}
	payload := queue.PackageStatusEventPayload{
		TrackingNumber: trackingNumber,
		Status:         status,
		PreviousStatus: strings.TrimSpace(previousStatus),
		Source:         source,
		OccurredAt:     time.Now(),
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueuePackageStatusEvent(payload)
		if err == nil {
			return
		}
		logger.Warnw("package_event_enqueue_failed",
			"tracking_number", trackingNumber,
			"error", err,
		)
	}
	if err := s.Store(payload); err != nil {
		logger.Warnw("package_event_store_failed",
			"tracking_number", trackingNumber,
			"status", status,
			"error", err,
		)
	}
}

// Store 持久化状态记录；包裹已删除时跳过
func (s *PackageEventService) Store(payload queue.PackageStatusEventPayload) error {
	existing, err := s.packageRepo.ListExistingTrackingNumbers([]int64{payload.TrackingNumber})
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		logger.Debugw("package_event_skipped_missing_package", "tracking_number", payload.TrackingNumber)
		return nil
	}
	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return s.eventRepo.Create(&models.PackageEvent{
		TrackingNumber: payload.TrackingNumber,
		Status:         payload.Status,
		PreviousStatus: payload.PreviousStatus,
		Source:         payload.Source,
		CreatedAt:      occurredAt,
	})
}

// List 获取包裹状态记录
func (s *PackageEventService) List(trackingNumber int64) ([]models.PackageEvent, error) {
	existing, err := s.packageRepo.ListExistingTrackingNumbers([]int64{trackingNumber})
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, ErrPackageNotFound
	}
	return s.eventRepo.ListByTrackingNumber(trackingNumber)
}
