package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/models"
	"github.com/shalemacademy/fees-api/internal/repository"
)

// ExpenseService records development fund spends. The ledger is append-only
// and pinned to the configured operating year.
type ExpenseService interface {
	Add(ctx context.Context, branch string, req dto.ExpenseCreateRequest) (dto.DevExpenseResponse, error)
	List(ctx context.Context, branch string, month *int) ([]dto.DevExpenseResponse, error)
}

type expenseService struct {
	expenses  repository.ExpenseRepository
	validator *validator.Validate
	year      int
	logger    zerolog.Logger
	now       func() time.Time
}

// NewExpenseService builds the development expense service.
func NewExpenseService(expenses repository.ExpenseRepository, validate *validator.Validate, year int, logger zerolog.Logger) ExpenseService {
	return &expenseService{
		expenses:  expenses,
		validator: validate,
		year:      year,
		logger:    logger.With().Str("component", "expense_service").Logger(),
		now:       time.Now,
	}
}

func (s *expenseService) Add(ctx context.Context, branch string, req dto.ExpenseCreateRequest) (dto.DevExpenseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.DevExpenseResponse{}, err
	}

	expense := models.DevExpense{
		Branch:      branch,
		Month:       req.Month,
		Year:        s.year,
		Description: req.Description,
		Amount:      req.Amount,
		DateAdded:   s.now(),
	}

	if err := s.expenses.Create(ctx, &expense); err != nil {
		return dto.DevExpenseResponse{}, err
	}

	s.logger.Info().
		Str("branch", branch).
		Int("month", expense.Month).
		Int("amount", expense.Amount).
		Msg("development expense recorded")

	return dto.NewDevExpenseResponse(expense), nil
}

func (s *expenseService) List(ctx context.Context, branch string, month *int) ([]dto.DevExpenseResponse, error) {
	if month != nil && (*month < 0 || *month > 11) {
		return nil, ErrInvalidMonth
	}

	expenses, err := s.expenses.List(ctx, branch, month)
	if err != nil {
		return nil, err
	}

	return dto.NewDevExpenseResponseSlice(expenses), nil
}
