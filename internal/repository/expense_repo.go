package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/models"
)

// ExpenseRepository stores development fund spend entries, append-only.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.DevExpense) error
	List(ctx context.Context, branch string, month *int) ([]models.DevExpense, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository constructs a development expense repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.DevExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) List(ctx context.Context, branch string, month *int) ([]models.DevExpense, error) {
	query := r.db.WithContext(ctx).Where("branch = ?", branch)
	if month != nil {
		query = query.Where("month = ?", *month)
	}

	var expenses []models.DevExpense
	if err := query.Order("id DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}

	return expenses, nil
}
