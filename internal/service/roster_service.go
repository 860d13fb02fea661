package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/models"
	"github.com/shalemacademy/fees-api/internal/repository"
)

// RosterService manages branch enrollment and the monthly roster view.
type RosterService interface {
	AddStudent(ctx context.Context, branch string, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	GetStudent(ctx context.Context, branch, code string) (dto.StudentResponse, error)
	ListStudents(ctx context.Context, branch string, month int) ([]dto.StudentMonthResponse, error)
}

type rosterService struct {
	students  repository.StudentRepository
	records   repository.FeeRecordRepository
	credits   repository.CreditRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRosterService builds the roster service.
func NewRosterService(students repository.StudentRepository, records repository.FeeRecordRepository, credits repository.CreditRepository, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		students:  students,
		records:   records,
		credits:   credits,
		validator: validate,
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) AddStudent(ctx context.Context, branch string, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.students.GetByCode(ctx, branch, req.Code); err == nil {
		return dto.StudentResponse{}, ErrDuplicateStudent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		Code:            req.Code,
		Branch:          branch,
		Name:            req.Name,
		MonthlyFee:      req.MonthlyFee,
		JoinMonth:       req.JoinMonth,
		Phone:           req.Phone,
		WhatsApp:        req.WhatsApp,
		LifecycleStatus: models.StudentStatusActive,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().
		Str("branch", branch).
		Str("student_code", student.Code).
		Int("monthly_fee", student.MonthlyFee).
		Msg("student enrolled")

	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) GetStudent(ctx context.Context, branch, code string) (dto.StudentResponse, error) {
	student, err := s.students.GetByCode(ctx, branch, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) ListStudents(ctx context.Context, branch string, month int) ([]dto.StudentMonthResponse, error) {
	if month < 0 || month > 11 {
		return nil, ErrInvalidMonth
	}

	students, err := s.students.ListActive(ctx, branch)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByMonth(ctx, branch, month)
	if err != nil {
		return nil, err
	}

	recordByCode := make(map[string]models.FeeRecord, len(records))
	for _, record := range records {
		recordByCode[record.StudentCode] = record
	}

	responses := make([]dto.StudentMonthResponse, 0, len(students))
	for _, student := range students {
		entry := dto.StudentMonthResponse{
			Student: dto.NewStudentResponse(student),
			Month:   month,
			Status:  models.FeeStatusPending,
		}

		if month < student.JoinMonth {
			entry.Status = models.FeeStatusNA
			responses = append(responses, entry)
			continue
		}

		record, ok := recordByCode[student.Code]
		if !ok {
			responses = append(responses, entry)
			continue
		}

		entry.Status = record.Status
		entry.AmountCollected = record.AmountCollected
		entry.ReceiptNumber = record.ReceiptNumber

		if record.CreditID != nil {
			credit, err := s.credits.GetByID(ctx, *record.CreditID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
			} else {
				applied := dto.NewCreditResponse(credit)
				entry.CreditApplied = &applied
			}
		}

		responses = append(responses, entry)
	}

	return responses, nil
}
