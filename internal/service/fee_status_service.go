package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/models"
	"github.com/shalemacademy/fees-api/internal/observability"
	"github.com/shalemacademy/fees-api/internal/repository"
)

// FeeStatusService is the per-student-per-month payment state machine.
//
// Months before the join month are na. Active months start pending and move
// exactly once: to paid, break, or discontinued. No transition leads back to
// pending; correcting a mis-marked month is an out-of-band concern.
type FeeStatusService interface {
	GetStatus(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
	MarkPaid(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
	MarkPaidWithCredit(ctx context.Context, branch, code string, month int, creditID uint) (dto.FeeStatusResponse, error)
	MarkBreak(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
	MarkDiscontinued(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
}

type feeStatusService struct {
	students repository.StudentRepository
	records  repository.FeeRecordRepository
	credits  repository.CreditRepository
	locks    *keyedLocks
	logger   zerolog.Logger
	now      func() time.Time
}

// NewFeeStatusService builds the fee state machine service.
func NewFeeStatusService(students repository.StudentRepository, records repository.FeeRecordRepository, credits repository.CreditRepository, logger zerolog.Logger) FeeStatusService {
	return &feeStatusService{
		students: students,
		records:  records,
		credits:  credits,
		locks:    newKeyedLocks(),
		logger:   logger.With().Str("component", "fee_status_service").Logger(),
		now:      time.Now,
	}
}

func (s *feeStatusService) GetStatus(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	if month < 0 || month > 11 {
		return dto.FeeStatusResponse{}, ErrInvalidMonth
	}

	student, err := s.students.GetByCode(ctx, branch, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeStatusResponse{}, ErrStudentNotFound
		}
		return dto.FeeStatusResponse{}, err
	}

	if month < student.JoinMonth {
		return synthesized(branch, code, month, models.FeeStatusNA), nil
	}

	record, err := s.records.Get(ctx, branch, code, month)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeStatusResponse{}, err
		}
		if !student.IsActive() {
			return synthesized(branch, code, month, models.FeeStatusDiscontinued), nil
		}
		return synthesized(branch, code, month, models.FeeStatusPending), nil
	}

	// A discontinued lifecycle shadows pending months but never rewrites
	// settled history.
	if !student.IsActive() && !record.IsSettled() {
		record.Status = models.FeeStatusDiscontinued
	}

	return dto.NewFeeStatusResponse(record), nil
}

func (s *feeStatusService) MarkPaid(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	unlock := s.locks.lock(feeCellKey(branch, code, month))
	defer unlock()

	student, record, err := s.loadForTransition(ctx, branch, code, month)
	if err != nil {
		return dto.FeeStatusResponse{}, err
	}

	now := s.now()
	record.Status = models.FeeStatusPaid
	record.AmountCollected = student.MonthlyFee
	record.ReceiptNumber = uuid.NewString()
	record.PaidAt = &now

	if err := s.records.Save(ctx, &record); err != nil {
		return dto.FeeStatusResponse{}, err
	}

	observability.PaymentsRecorded().WithLabelValues(branch).Inc()
	s.logger.Info().
		Str("branch", branch).
		Str("student_code", code).
		Int("month", month).
		Int("amount", record.AmountCollected).
		Msg("fee marked paid")

	return dto.NewFeeStatusResponse(record), nil
}

func (s *feeStatusService) MarkPaidWithCredit(ctx context.Context, branch, code string, month int, creditID uint) (dto.FeeStatusResponse, error) {
	unlockCell := s.locks.lock(feeCellKey(branch, code, month))
	defer unlockCell()
	unlockCredit := s.locks.lock(creditKey(creditID))
	defer unlockCredit()

	student, record, err := s.loadForTransition(ctx, branch, code, month)
	if err != nil {
		return dto.FeeStatusResponse{}, err
	}

	credit, err := s.credits.GetByID(ctx, creditID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeStatusResponse{}, ErrCreditNotFound
		}
		return dto.FeeStatusResponse{}, err
	}
	if credit.Branch != branch || credit.StudentCode != code {
		return dto.FeeStatusResponse{}, ErrCreditNotFound
	}
	if credit.IsUsed {
		return dto.FeeStatusResponse{}, ErrCreditAlreadyUsed
	}

	now := s.now()
	redeemed, err := s.credits.Redeem(ctx, creditID, month, now)
	if err != nil {
		return dto.FeeStatusResponse{}, err
	}
	if !redeemed {
		return dto.FeeStatusResponse{}, ErrCreditAlreadyUsed
	}

	owed := student.MonthlyFee - credit.Amount
	if owed < 0 {
		owed = 0
	}

	record.Status = models.FeeStatusPaid
	record.AmountCollected = owed
	record.CreditID = &credit.ID
	record.ReceiptNumber = uuid.NewString()
	record.PaidAt = &now

	if err := s.records.Save(ctx, &record); err != nil {
		// Compensate so the credit is not lost to a failed payment.
		if rbErr := s.credits.Release(ctx, creditID); rbErr != nil {
			s.logger.Error().Err(rbErr).
				Uint("credit_id", creditID).
				Msg("failed to release credit after payment failure")
		}
		return dto.FeeStatusResponse{}, err
	}

	observability.PaymentsRecorded().WithLabelValues(branch).Inc()
	observability.CreditsRedeemed().WithLabelValues(branch).Inc()
	s.logger.Info().
		Str("branch", branch).
		Str("student_code", code).
		Int("month", month).
		Uint("credit_id", creditID).
		Int("credit_amount", credit.Amount).
		Int("amount", owed).
		Msg("fee marked paid with credit")

	return dto.NewFeeStatusResponse(record), nil
}

func (s *feeStatusService) MarkBreak(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	unlock := s.locks.lock(feeCellKey(branch, code, month))
	defer unlock()

	_, record, err := s.loadForTransition(ctx, branch, code, month)
	if err != nil {
		return dto.FeeStatusResponse{}, err
	}

	record.Status = models.FeeStatusBreak
	record.AmountCollected = 0

	if err := s.records.Save(ctx, &record); err != nil {
		return dto.FeeStatusResponse{}, err
	}

	s.logger.Info().
		Str("branch", branch).
		Str("student_code", code).
		Int("month", month).
		Msg("fee month marked break")

	return dto.NewFeeStatusResponse(record), nil
}

func (s *feeStatusService) MarkDiscontinued(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	unlock := s.locks.lock(feeCellKey(branch, code, month))
	defer unlock()

	_, record, err := s.loadForTransition(ctx, branch, code, month)
	if err != nil {
		return dto.FeeStatusResponse{}, err
	}

	if err := s.students.SetLifecycle(ctx, branch, code, models.StudentStatusDiscontinued); err != nil {
		return dto.FeeStatusResponse{}, err
	}

	record.Status = models.FeeStatusDiscontinued
	record.AmountCollected = 0

	if err := s.records.Save(ctx, &record); err != nil {
		if rbErr := s.students.SetLifecycle(ctx, branch, code, models.StudentStatusActive); rbErr != nil {
			s.logger.Error().Err(rbErr).
				Str("branch", branch).
				Str("student_code", code).
				Msg("failed to restore lifecycle after discontinue failure")
		}
		return dto.FeeStatusResponse{}, err
	}

	s.logger.Info().
		Str("branch", branch).
		Str("student_code", code).
		Int("month", month).
		Msg("student discontinued")

	return dto.NewFeeStatusResponse(record), nil
}

// loadForTransition enforces the shared preconditions of every state change:
// a valid month, an active student, a month at or after joining, and a cell
// still in pending.
func (s *feeStatusService) loadForTransition(ctx context.Context, branch, code string, month int) (models.Student, models.FeeRecord, error) {
	if month < 0 || month > 11 {
		return models.Student{}, models.FeeRecord{}, ErrInvalidMonth
	}

	student, err := s.students.GetByCode(ctx, branch, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, models.FeeRecord{}, ErrStudentNotFound
		}
		return models.Student{}, models.FeeRecord{}, err
	}

	if !student.IsActive() || month < student.JoinMonth {
		return models.Student{}, models.FeeRecord{}, ErrInvalidTransition
	}

	record, err := s.records.Get(ctx, branch, code, month)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, models.FeeRecord{}, err
		}
		record = models.FeeRecord{
			Branch:      branch,
			StudentCode: code,
			Month:       month,
			Status:      models.FeeStatusPending,
		}
	}

	if record.Status != models.FeeStatusPending {
		return models.Student{}, models.FeeRecord{}, ErrInvalidTransition
	}

	return student, record, nil
}

func synthesized(branch, code string, month int, status string) dto.FeeStatusResponse {
	return dto.FeeStatusResponse{
		Branch:      branch,
		StudentCode: code,
		Month:       month,
		Status:      status,
	}
}
