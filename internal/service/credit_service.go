package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/models"
	"github.com/shalemacademy/fees-api/internal/repository"
)

// CreditService issues referral credits and reports availability. Redemption
// happens only through the fee engine's pay-with-credit path.
type CreditService interface {
	Issue(ctx context.Context, branch string, req dto.CreditIssueRequest) (dto.CreditResponse, error)
	Available(ctx context.Context, branch, code string) (dto.AvailableCreditsResponse, error)
	ListByBranch(ctx context.Context, branch string) (dto.BranchCreditsResponse, error)
}

type creditService struct {
	students  repository.StudentRepository
	credits   repository.CreditRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCreditService builds the credit ledger service.
func NewCreditService(students repository.StudentRepository, credits repository.CreditRepository, validate *validator.Validate, logger zerolog.Logger) CreditService {
	return &creditService{
		students:  students,
		credits:   credits,
		validator: validate,
		logger:    logger.With().Str("component", "credit_service").Logger(),
		now:       time.Now,
	}
}

func (s *creditService) Issue(ctx context.Context, branch string, req dto.CreditIssueRequest) (dto.CreditResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CreditResponse{}, err
	}

	if _, err := s.students.GetByCode(ctx, branch, req.StudentCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CreditResponse{}, ErrStudentNotFound
		}
		return dto.CreditResponse{}, err
	}

	credit := models.ReferralCredit{
		Branch:      branch,
		StudentCode: req.StudentCode,
		Amount:      req.Amount,
		Reason:      req.Reason,
		Description: req.Description,
		DateEarned:  s.now(),
	}

	// Back-dated entry: a used-in month at issuance creates the credit
	// already consumed.
	if req.UsedInMonth != nil {
		usedDate := s.now()
		if req.UsedDate != nil {
			usedDate = *req.UsedDate
		}
		credit.IsUsed = true
		credit.UsedInMonth = req.UsedInMonth
		credit.UsedDate = &usedDate
	}

	if err := s.credits.Create(ctx, &credit); err != nil {
		return dto.CreditResponse{}, err
	}

	s.logger.Info().
		Str("branch", branch).
		Str("student_code", credit.StudentCode).
		Int("amount", credit.Amount).
		Bool("pre_consumed", credit.IsUsed).
		Msg("referral credit issued")

	return dto.NewCreditResponse(credit), nil
}

func (s *creditService) Available(ctx context.Context, branch, code string) (dto.AvailableCreditsResponse, error) {
	if _, err := s.students.GetByCode(ctx, branch, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AvailableCreditsResponse{}, ErrStudentNotFound
		}
		return dto.AvailableCreditsResponse{}, err
	}

	credits, err := s.credits.ListUnused(ctx, branch, code)
	if err != nil {
		return dto.AvailableCreditsResponse{}, err
	}

	total := 0
	for _, credit := range credits {
		total += credit.Amount
	}

	return dto.AvailableCreditsResponse{
		Credits:        dto.NewCreditResponseSlice(credits),
		TotalAvailable: total,
	}, nil
}

func (s *creditService) ListByBranch(ctx context.Context, branch string) (dto.BranchCreditsResponse, error) {
	credits, err := s.credits.ListByBranch(ctx, branch)
	if err != nil {
		return dto.BranchCreditsResponse{}, err
	}

	response := dto.BranchCreditsResponse{
		Credits: dto.NewCreditResponseSlice(credits),
	}
	for _, credit := range credits {
		if credit.IsUsed {
			response.TotalRedeemed += credit.Amount
		} else {
			response.TotalOutstanding += credit.Amount
		}
	}

	return response, nil
}
