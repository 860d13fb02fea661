package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shalemacademy/fees-api/internal/dto"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type mockFeeStatusService struct {
	getStatusFn          func(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
	markPaidFn           func(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
	markPaidWithCreditFn func(ctx context.Context, branch, code string, month int, creditID uint) (dto.FeeStatusResponse, error)
	markBreakFn          func(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
	markDiscontinuedFn   func(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error)
}

func (m *mockFeeStatusService) GetStatus(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	return m.getStatusFn(ctx, branch, code, month)
}

func (m *mockFeeStatusService) MarkPaid(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	return m.markPaidFn(ctx, branch, code, month)
}

func (m *mockFeeStatusService) MarkPaidWithCredit(ctx context.Context, branch, code string, month int, creditID uint) (dto.FeeStatusResponse, error) {
	return m.markPaidWithCreditFn(ctx, branch, code, month, creditID)
}

func (m *mockFeeStatusService) MarkBreak(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	return m.markBreakFn(ctx, branch, code, month)
}

func (m *mockFeeStatusService) MarkDiscontinued(ctx context.Context, branch, code string, month int) (dto.FeeStatusResponse, error) {
	return m.markDiscontinuedFn(ctx, branch, code, month)
}

type mockRosterService struct {
	addStudentFn   func(ctx context.Context, branch string, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	getStudentFn   func(ctx context.Context, branch, code string) (dto.StudentResponse, error)
	listStudentsFn func(ctx context.Context, branch string, month int) ([]dto.StudentMonthResponse, error)
}

func (m *mockRosterService) AddStudent(ctx context.Context, branch string, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	return m.addStudentFn(ctx, branch, req)
}

func (m *mockRosterService) GetStudent(ctx context.Context, branch, code string) (dto.StudentResponse, error) {
	return m.getStudentFn(ctx, branch, code)
}

func (m *mockRosterService) ListStudents(ctx context.Context, branch string, month int) ([]dto.StudentMonthResponse, error) {
	return m.listStudentsFn(ctx, branch, month)
}

type mockCreditService struct {
	issueFn        func(ctx context.Context, branch string, req dto.CreditIssueRequest) (dto.CreditResponse, error)
	availableFn    func(ctx context.Context, branch, code string) (dto.AvailableCreditsResponse, error)
	listByBranchFn func(ctx context.Context, branch string) (dto.BranchCreditsResponse, error)
}

func (m *mockCreditService) Issue(ctx context.Context, branch string, req dto.CreditIssueRequest) (dto.CreditResponse, error) {
	return m.issueFn(ctx, branch, req)
}

func (m *mockCreditService) Available(ctx context.Context, branch, code string) (dto.AvailableCreditsResponse, error) {
	return m.availableFn(ctx, branch, code)
}

func (m *mockCreditService) ListByBranch(ctx context.Context, branch string) (dto.BranchCreditsResponse, error) {
	return m.listByBranchFn(ctx, branch)
}

type mockFinanceService struct {
	summarizeFn       func(ctx context.Context, branch string, month int) (dto.FinancialSummaryResponse, error)
	developmentFundFn func(ctx context.Context, branch string) (dto.DevelopmentFundResponse, error)
}

func (m *mockFinanceService) Summarize(ctx context.Context, branch string, month int) (dto.FinancialSummaryResponse, error) {
	return m.summarizeFn(ctx, branch, month)
}

func (m *mockFinanceService) DevelopmentFund(ctx context.Context, branch string) (dto.DevelopmentFundResponse, error) {
	return m.developmentFundFn(ctx, branch)
}

type mockExpenseService struct {
	addFn  func(ctx context.Context, branch string, req dto.ExpenseCreateRequest) (dto.DevExpenseResponse, error)
	listFn func(ctx context.Context, branch string, month *int) ([]dto.DevExpenseResponse, error)
}

func (m *mockExpenseService) Add(ctx context.Context, branch string, req dto.ExpenseCreateRequest) (dto.DevExpenseResponse, error) {
	return m.addFn(ctx, branch, req)
}

func (m *mockExpenseService) List(ctx context.Context, branch string, month *int) ([]dto.DevExpenseResponse, error) {
	return m.listFn(ctx, branch, month)
}
