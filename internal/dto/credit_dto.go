package dto

import (
	"time"

	"github.com/shalemacademy/fees-api/internal/models"
)

// CreditIssueRequest carries the payload for granting a referral credit.
// Supplying UsedInMonth creates the credit already consumed, which models
// back-dated entry of credits redeemed before they were recorded.
type CreditIssueRequest struct {
	StudentCode string     `json:"student_code" validate:"required,max=32"`
	Amount      int        `json:"amount" validate:"required,gt=0"`
	Reason      string     `json:"reason" validate:"required,max=255"`
	Description string     `json:"description" validate:"omitempty,max=255"`
	UsedInMonth *int       `json:"used_in_month" validate:"omitempty,gte=0,lte=11"`
	UsedDate    *time.Time `json:"used_date"`
}

// CreditResponse is the API shape of a referral credit.
type CreditResponse struct {
	ID          uint       `json:"id"`
	Branch      string     `json:"branch"`
	StudentCode string     `json:"student_code"`
	Amount      int        `json:"amount"`
	Reason      string     `json:"reason"`
	Description string     `json:"description,omitempty"`
	DateEarned  time.Time  `json:"date_earned"`
	IsUsed      bool       `json:"is_used"`
	UsedInMonth *int       `json:"used_in_month,omitempty"`
	UsedDate    *time.Time `json:"used_date,omitempty"`
}

// NewCreditResponse maps a credit model to its response shape.
func NewCreditResponse(credit models.ReferralCredit) CreditResponse {
	return CreditResponse{
		ID:          credit.ID,
		Branch:      credit.Branch,
		StudentCode: credit.StudentCode,
		Amount:      credit.Amount,
		Reason:      credit.Reason,
		Description: credit.Description,
		DateEarned:  credit.DateEarned,
		IsUsed:      credit.IsUsed,
		UsedInMonth: credit.UsedInMonth,
		UsedDate:    credit.UsedDate,
	}
}

// NewCreditResponseSlice maps a slice of credit models.
func NewCreditResponseSlice(credits []models.ReferralCredit) []CreditResponse {
	responses := make([]CreditResponse, 0, len(credits))
	for _, credit := range credits {
		responses = append(responses, NewCreditResponse(credit))
	}
	return responses
}

// AvailableCreditsResponse lists a student's unused credits. The first entry
// is the conventional default pick for the pay screen.
type AvailableCreditsResponse struct {
	Credits        []CreditResponse `json:"credits"`
	TotalAvailable int              `json:"total_available"`
}

// BranchCreditsResponse is the branch-wide credit report.
type BranchCreditsResponse struct {
	Credits          []CreditResponse `json:"credits"`
	TotalOutstanding int              `json:"total_outstanding"`
	TotalRedeemed    int              `json:"total_redeemed"`
}
