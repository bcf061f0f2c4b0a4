package queue

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/parcelkeep/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPackageStatusEvent 包裹状态流转记录任务
	TaskPackageStatusEvent = constants.TaskPackageStatusEvent
)

// PackageStatusEventPayload 包裹状态流转记录任务载荷
type PackageStatusEventPayload struct {
	TrackingNumber int64     `json:"tracking_number"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Source         string    `json:"source"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewPackageStatusEventTask 创建包裹状态流转记录任务
func NewPackageStatusEventTask(payload PackageStatusEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPackageStatusEvent, body), nil
}

// ParsePackageStatusEventPayload 解析并校验任务载荷
func ParsePackageStatusEventPayload(body []byte) (PackageStatusEventPayload, error) {
	var payload PackageStatusEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	payload.Status = strings.TrimSpace(payload.Status)
	if payload.TrackingNumber <= 0 || payload.Status == "" {
		return payload, errors.New("invalid package status event payload")
	}
	return payload, nil
}
