package service

import (
	"errors"
	"fmt"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/metrics"
	"github.com/parcelkeep/internal/models"

	"gorm.io/gorm"
)

// RecipientUpdate 批量更新中的单项
type RecipientUpdate struct {
	RecipientContact int64
	Fields           RecipientInput
}

// RecipientBulkUpdateResult 批量更新结果
type RecipientBulkUpdateResult struct {
	UpdatedRecipients []models.Recipient `json:"updated_recipients"`
	NotFoundNumbers   []int64            `json:"not_found_numbers"`
}

// AddMany 批量创建收件人，单事务写入，任一失败整体回滚
func (s *RecipientService) AddMany(items []RecipientInput) ([]models.Recipient, error) {
	return s.addMany(items, constants.WriteSourceBulkAdd)
}

func (s *RecipientService) addMany(items []RecipientInput, source string) ([]models.Recipient, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	recipients := make([]models.Recipient, len(items))
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		for i, item := range items {
			if err := validateRecipientInput(item, true); err != nil {
				return &BulkItemError{Index: i + 1, Err: err}
			}
			recipient := models.Recipient{}
			applyRecipientInput(&recipient, item)
			recipients[i] = recipient
		}
		return s.repo.WithTx(tx).CreateBatch(recipients)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("add_many_recipients").Inc()
		logger.Errorw("recipient_bulk_insert_failed", "count", len(items), "source", source, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBulkInsertFailed, err)
	}
	metrics.RecipientsCreatedTotal.WithLabelValues(source).Add(float64(len(recipients)))
	logger.Infow("recipient_bulk_inserted", "count", len(recipients), "source", source)
	return recipients, nil
}

// DeleteMany 批量删除收件人，只删除存在的部分
func (s *RecipientService) DeleteMany(contacts []int64) (*BulkDeleteResult, error) {
	if len(contacts) == 0 {
		return nil, ErrInvalidKeys
	}
	contacts = uniqueKeys(contacts)
	result := &BulkDeleteResult{}
	var existing []int64
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		var err error
		existing, err = s.repo.WithTx(tx).ListExistingContacts(contacts)
		if err != nil {
			return err
		}
		result.DeletedCount, err = s.repo.WithTx(tx).DeleteByContacts(existing)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.NotFoundNumbers = partitionKeys(contacts, existing)
	metrics.RecipientsDeletedTotal.Add(float64(result.DeletedCount))
	logger.Infow("recipient_bulk_deleted",
		"deleted_count", result.DeletedCount,
		"not_found_count", len(result.NotFoundNumbers),
	)
	return result, nil
}

// UpdateMany 逐项部分更新收件人；首个失败时停止并返回部分结果，不回滚
func (s *RecipientService) UpdateMany(updates []RecipientUpdate) (*RecipientBulkUpdateResult, error) {
	if len(updates) == 0 {
		return nil, ErrEmptyBatch
	}
	result := &RecipientBulkUpdateResult{
		UpdatedRecipients: make([]models.Recipient, 0, len(updates)),
		NotFoundNumbers:   make([]int64, 0),
	}
	for i, update := range updates {
		if update.RecipientContact <= 0 || update.Fields.IsEmpty() {
			return result, &BulkItemError{Index: i + 1, Err: ErrInvalidUpdate, Result: result}
		}
		updated, err := s.PatchFields(update.RecipientContact, update.Fields)
		if errors.Is(err, ErrRecipientNotFound) {
			result.NotFoundNumbers = append(result.NotFoundNumbers, update.RecipientContact)
			continue
		}
		if err != nil {
			return result, &BulkItemError{Index: i + 1, Err: err, Result: result}
		}
		result.UpdatedRecipients = append(result.UpdatedRecipients, *updated)
	}
	logger.Infow("recipient_bulk_updated",
		"updated_count", len(result.UpdatedRecipients),
		"not_found_count", len(result.NotFoundNumbers),
	)
	return result, nil
}
