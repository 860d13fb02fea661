package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/models"
)

// ErrStaleRecord signals that a fee record was modified by another writer
// between read and update.
var ErrStaleRecord = errors.New("fee record version conflict")

// FeeRecordRepository stores materialized per-month fee cells.
type FeeRecordRepository interface {
	Get(ctx context.Context, branch, code string, month int) (models.FeeRecord, error)
	ListByMonth(ctx context.Context, branch string, month int) ([]models.FeeRecord, error)
	ListByBranch(ctx context.Context, branch string) ([]models.FeeRecord, error)
	// Save creates the record when it has no ID yet, otherwise applies an
	// optimistic update guarded by the record's version.
	Save(ctx context.Context, record *models.FeeRecord) error
	Delete(ctx context.Context, id uint) error
}

type feeRecordRepository struct {
	db *gorm.DB
}

// NewFeeRecordRepository constructs a fee record repository.
func NewFeeRecordRepository(db *gorm.DB) FeeRecordRepository {
	return &feeRecordRepository{db: db}
}

func (r *feeRecordRepository) Get(ctx context.Context, branch, code string, month int) (models.FeeRecord, error) {
	var record models.FeeRecord
	err := r.db.WithContext(ctx).
		Where("branch = ? AND student_code = ? AND month = ?", branch, code, month).
		First(&record).Error
	if err != nil {
		return models.FeeRecord{}, err
	}

	return record, nil
}

func (r *feeRecordRepository) ListByMonth(ctx context.Context, branch string, month int) ([]models.FeeRecord, error) {
	var records []models.FeeRecord
	err := r.db.WithContext(ctx).
		Where("branch = ? AND month = ?", branch, month).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRecordRepository) ListByBranch(ctx context.Context, branch string) ([]models.FeeRecord, error) {
	var records []models.FeeRecord
	err := r.db.WithContext(ctx).
		Where("branch = ?", branch).
		Order("month ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRecordRepository) Save(ctx context.Context, record *models.FeeRecord) error {
	if record.ID == 0 {
		return r.db.WithContext(ctx).Create(record).Error
	}

	previous := record.Version
	record.Version = previous + 1
	result := r.db.WithContext(ctx).
		Model(&models.FeeRecord{}).
		Where("id = ? AND version = ?", record.ID, previous).
		Updates(map[string]interface{}{
			"status":           record.Status,
			"amount_collected": record.AmountCollected,
			"credit_id":        record.CreditID,
			"receipt_number":   record.ReceiptNumber,
			"paid_at":          record.PaidAt,
			"version":          record.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}

	return nil
}

func (r *feeRecordRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FeeRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
