package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/models"
)

// CreditRepository stores referral credits. Credits are never deleted.
type CreditRepository interface {
	Create(ctx context.Context, credit *models.ReferralCredit) error
	GetByID(ctx context.Context, id uint) (models.ReferralCredit, error)
	ListUnused(ctx context.Context, branch, code string) ([]models.ReferralCredit, error)
	ListByBranch(ctx context.Context, branch string) ([]models.ReferralCredit, error)
	ListRedeemedInMonth(ctx context.Context, branch string, month int) ([]models.ReferralCredit, error)
	// Redeem flips the credit to used with a guard on its current unused
	// state. It reports false when the credit was already consumed.
	Redeem(ctx context.Context, id uint, month int, usedAt time.Time) (bool, error)
	// Release reverts a redemption; only the pay-with-credit compensation
	// path calls it.
	Release(ctx context.Context, id uint) error
}

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository constructs a referral credit repository.
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, credit *models.ReferralCredit) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

func (r *creditRepository) GetByID(ctx context.Context, id uint) (models.ReferralCredit, error) {
	var credit models.ReferralCredit
	if err := r.db.WithContext(ctx).First(&credit, id).Error; err != nil {
		return models.ReferralCredit{}, err
	}

	return credit, nil
}

func (r *creditRepository) ListUnused(ctx context.Context, branch, code string) ([]models.ReferralCredit, error) {
	var credits []models.ReferralCredit
	err := r.db.WithContext(ctx).
		Where("branch = ? AND student_code = ? AND is_used = ?", branch, code, false).
		Order("id ASC").
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return credits, nil
}

func (r *creditRepository) ListByBranch(ctx context.Context, branch string) ([]models.ReferralCredit, error) {
	var credits []models.ReferralCredit
	err := r.db.WithContext(ctx).
		Where("branch = ?", branch).
		Order("id DESC").
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return credits, nil
}

func (r *creditRepository) ListRedeemedInMonth(ctx context.Context, branch string, month int) ([]models.ReferralCredit, error) {
	var credits []models.ReferralCredit
	err := r.db.WithContext(ctx).
		Where("branch = ? AND is_used = ? AND used_in_month = ?", branch, true, month).
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return credits, nil
}

func (r *creditRepository) Redeem(ctx context.Context, id uint, month int, usedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReferralCredit{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used":       true,
			"used_in_month": month,
			"used_date":     usedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *creditRepository) Release(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReferralCredit{}).
		Where("id = ? AND is_used = ?", id, true).
		Updates(map[string]interface{}{
			"is_used":       false,
			"used_in_month": gorm.Expr("NULL"),
			"used_date":     gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
