package dto

import (
	"time"

	"github.com/shalemacademy/fees-api/internal/models"
)

// PayRequest is the optional body of a pay action; a credit id selects the
// single credit to redeem against the month's due.
type PayRequest struct {
	CreditID *uint `json:"credit_id"`
}

// FeeStatusResponse is the API shape of one (student, month) fee cell.
type FeeStatusResponse struct {
	Branch          string     `json:"branch"`
	StudentCode     string     `json:"student_code"`
	Month           int        `json:"month"`
	Status          string     `json:"status"`
	AmountCollected int        `json:"amount_collected"`
	CreditID        *uint      `json:"credit_id,omitempty"`
	ReceiptNumber   string     `json:"receipt_number,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}

// NewFeeStatusResponse maps a fee record to its response shape.
func NewFeeStatusResponse(record models.FeeRecord) FeeStatusResponse {
	return FeeStatusResponse{
		Branch:          record.Branch,
		StudentCode:     record.StudentCode,
		Month:           record.Month,
		Status:          record.Status,
		AmountCollected: record.AmountCollected,
		CreditID:        record.CreditID,
		ReceiptNumber:   record.ReceiptNumber,
		PaidAt:          record.PaidAt,
	}
}
