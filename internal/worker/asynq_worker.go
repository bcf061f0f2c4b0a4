package worker

import (
	"context"

	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/provider"
	"github.com/parcelkeep/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPackageStatusEvent, c.handlePackageStatusEvent)
}

func (c *Consumer) handlePackageStatusEvent(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_package_status_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePackageStatusEventPayload(task.Payload())
	if err != nil {
		// 载荷无法解析时重试没有意义
		logger.Warnw("worker_package_status_event_invalid_payload", "error", err)
		return asynq.SkipRetry
	}
	if c.Container == nil || c.PackageEventService == nil {
		logger.Warnw("worker_package_status_event_skip_service_nil", "tracking_number", payload.TrackingNumber)
		return nil
	}
	if err := c.PackageEventService.Store(payload); err != nil {
		logger.Warnw("worker_package_status_event_store_failed",
			"tracking_number", payload.TrackingNumber,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}
