package dto

import (
	"time"

	"github.com/shalemacademy/fees-api/internal/models"
)

// FinancialSummaryResponse reconciles one branch month. Collected counts fees
// settled (cash plus credits); ActualReceived subtracts redeemed credits to
// give the figure the bank statement should match.
type FinancialSummaryResponse struct {
	Branch            string `json:"branch"`
	Month             int    `json:"month"`
	ActiveStudents    int    `json:"active_students"`
	Expected          int    `json:"expected"`
	Collected         int    `json:"collected"`
	Pending           int    `json:"pending"`
	CreditsApplied    int    `json:"credits_applied"`
	ActualReceived    int    `json:"actual_received"`
	DevFundAllocation int    `json:"dev_fund_allocation"`
	DevFundSpent      int    `json:"dev_fund_spent"`
	DevFundBalance    int    `json:"dev_fund_balance"`
}

// ExpenseCreateRequest carries the payload for recording a development spend.
type ExpenseCreateRequest struct {
	Month       int    `json:"month" validate:"gte=0,lte=11"`
	Description string `json:"description" validate:"required,max=255"`
	Amount      int    `json:"amount" validate:"required,gt=0"`
}

// DevExpenseResponse is the API shape of a development fund spend entry.
type DevExpenseResponse struct {
	ID          uint      `json:"id"`
	Branch      string    `json:"branch"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	DateAdded   time.Time `json:"date_added"`
}

// NewDevExpenseResponse maps an expense model to its response shape.
func NewDevExpenseResponse(expense models.DevExpense) DevExpenseResponse {
	return DevExpenseResponse{
		ID:          expense.ID,
		Branch:      expense.Branch,
		Month:       expense.Month,
		Year:        expense.Year,
		Description: expense.Description,
		Amount:      expense.Amount,
		DateAdded:   expense.DateAdded,
	}
}

// NewDevExpenseResponseSlice maps a slice of expense models.
func NewDevExpenseResponseSlice(expenses []models.DevExpense) []DevExpenseResponse {
	responses := make([]DevExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, NewDevExpenseResponse(expense))
	}
	return responses
}

// MonthlyFundEntry is one calendar month of the development fund breakdown.
// CarryForward is the cumulative balance through that month.
type MonthlyFundEntry struct {
	Month        int `json:"month"`
	Collected    int `json:"collected"`
	DevFund      int `json:"dev_fund"`
	Spent        int `json:"spent"`
	CarryForward int `json:"carry_forward"`
}

// DevelopmentFundResponse is the all-time development fund view for a branch.
type DevelopmentFundResponse struct {
	Branch             string               `json:"branch"`
	TotalContributions int                  `json:"total_contributions"`
	TotalSpent         int                  `json:"total_spent"`
	AvailableBalance   int                  `json:"available_balance"`
	Expenses           []DevExpenseResponse `json:"expenses"`
	MonthlyBreakdown   []MonthlyFundEntry   `json:"monthly_breakdown"`
}
