package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/models"
	"github.com/shalemacademy/fees-api/internal/repository"
)

// devFundRate is the fixed share of collected fees booked to the development
// fund each month.
const devFundRate = 0.30

// FinanceService derives branch financial summaries from the roster, the fee
// records, the credit ledger and the expense ledger. It owns no state of its
// own; every figure is recomputed from the current ledgers.
type FinanceService interface {
	Summarize(ctx context.Context, branch string, month int) (dto.FinancialSummaryResponse, error)
	DevelopmentFund(ctx context.Context, branch string) (dto.DevelopmentFundResponse, error)
}

type financeService struct {
	students repository.StudentRepository
	records  repository.FeeRecordRepository
	credits  repository.CreditRepository
	expenses repository.ExpenseRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewFinanceService builds the financial aggregator. The cache client may be
// nil, in which case every call recomputes.
func NewFinanceService(students repository.StudentRepository, records repository.FeeRecordRepository, credits repository.CreditRepository, expenses repository.ExpenseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) FinanceService {
	return &financeService{
		students: students,
		records:  records,
		credits:  credits,
		expenses: expenses,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "finance_service").Logger(),
	}
}

func (s *financeService) Summarize(ctx context.Context, branch string, month int) (dto.FinancialSummaryResponse, error) {
	if month < 0 || month > 11 {
		return dto.FinancialSummaryResponse{}, ErrInvalidMonth
	}

	cacheKey := fmt.Sprintf("finance:summary:%s:%d", branch, month)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.FinancialSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("branch", branch).Int("month", month).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	students, records, expenses, err := s.loadLedgers(ctx, branch)
	if err != nil {
		return dto.FinancialSummaryResponse{}, err
	}

	redeemed, err := s.credits.ListRedeemedInMonth(ctx, branch, month)
	if err != nil {
		return dto.FinancialSummaryResponse{}, err
	}

	feeByCode := make(map[string]int, len(students))
	for _, student := range students {
		feeByCode[student.Code] = student.MonthlyFee
	}

	collectedByMonth := collectedPerMonth(feeByCode, records)
	spentByMonth := spentPerMonth(expenses)

	response := dto.FinancialSummaryResponse{
		Branch:    branch,
		Month:     month,
		Collected: collectedByMonth[month],
	}

	recordByCode := make(map[string]models.FeeRecord, len(records))
	for _, record := range records {
		if record.Month == month {
			recordByCode[record.StudentCode] = record
		}
	}

	for _, student := range students {
		if month < student.JoinMonth {
			continue
		}
		response.ActiveStudents++

		record, ok := recordByCode[student.Code]
		if !ok || record.Status == models.FeeStatusPending {
			response.Pending += student.MonthlyFee
		}
	}

	// Expected counts every fee that is either settled or still due; break
	// and discontinued months fall out of both sides.
	response.Expected = response.Collected + response.Pending

	for _, credit := range redeemed {
		// Retroactive exclusion: credits of discontinued students follow
		// their payments out of the totals.
		if _, active := feeByCode[credit.StudentCode]; active {
			response.CreditsApplied += credit.Amount
		}
	}
	response.ActualReceived = response.Collected - response.CreditsApplied

	response.DevFundAllocation = allocation(response.Collected)
	response.DevFundSpent = spentByMonth[month]
	for m := 0; m <= month; m++ {
		response.DevFundBalance += allocation(collectedByMonth[m]) - spentByMonth[m]
	}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

func (s *financeService) DevelopmentFund(ctx context.Context, branch string) (dto.DevelopmentFundResponse, error) {
	students, records, expenses, err := s.loadLedgers(ctx, branch)
	if err != nil {
		return dto.DevelopmentFundResponse{}, err
	}

	feeByCode := make(map[string]int, len(students))
	for _, student := range students {
		feeByCode[student.Code] = student.MonthlyFee
	}

	collectedByMonth := collectedPerMonth(feeByCode, records)
	spentByMonth := spentPerMonth(expenses)

	response := dto.DevelopmentFundResponse{
		Branch:           branch,
		Expenses:         dto.NewDevExpenseResponseSlice(expenses),
		MonthlyBreakdown: make([]dto.MonthlyFundEntry, 0, 12),
	}

	carry := 0
	for m := 0; m < 12; m++ {
		fund := allocation(collectedByMonth[m])
		carry += fund - spentByMonth[m]

		response.TotalContributions += fund
		response.TotalSpent += spentByMonth[m]
		response.MonthlyBreakdown = append(response.MonthlyBreakdown, dto.MonthlyFundEntry{
			Month:        m,
			Collected:    collectedByMonth[m],
			DevFund:      fund,
			Spent:        spentByMonth[m],
			CarryForward: carry,
		})
	}
	response.AvailableBalance = response.TotalContributions - response.TotalSpent

	return response, nil
}

func (s *financeService) loadLedgers(ctx context.Context, branch string) ([]models.Student, []models.FeeRecord, []models.DevExpense, error) {
	students, err := s.students.ListActive(ctx, branch)
	if err != nil {
		return nil, nil, nil, err
	}

	records, err := s.records.ListByBranch(ctx, branch)
	if err != nil {
		return nil, nil, nil, err
	}

	expenses, err := s.expenses.List(ctx, branch, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	return students, records, expenses, nil
}

// collectedPerMonth sums the settled fee figure per month. A paid month counts
// the full monthly fee even when part of it was covered by a credit; the cash
// difference shows up in actualReceived instead.
func collectedPerMonth(feeByCode map[string]int, records []models.FeeRecord) [12]int {
	var collected [12]int
	for _, record := range records {
		if record.Status != models.FeeStatusPaid || record.Month < 0 || record.Month > 11 {
			continue
		}
		if fee, ok := feeByCode[record.StudentCode]; ok {
			collected[record.Month] += fee
		}
	}
	return collected
}

func spentPerMonth(expenses []models.DevExpense) [12]int {
	var spent [12]int
	for _, expense := range expenses {
		if expense.Month >= 0 && expense.Month <= 11 {
			spent[expense.Month] += expense.Amount
		}
	}
	return spent
}

func allocation(collected int) int {
	return int(math.Round(float64(collected) * devFundRate))
}
