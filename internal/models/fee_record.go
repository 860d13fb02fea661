package models

import "time"

// Fee status values for a single (student, branch, month) cell.
const (
	FeeStatusNA           = "na"
	FeeStatusPending      = "pending"
	FeeStatusPaid         = "paid"
	FeeStatusBreak        = "break"
	FeeStatusDiscontinued = "discontinued"
)

// FeeRecord stores the materialized fee state for one student and month.
// Rows exist only once a state-changing action happened; months without a row
// are synthesized as pending or na at read time.
type FeeRecord struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Branch          string     `gorm:"size:64;not null;uniqueIndex:idx_fee_records_cell" json:"branch"`
	StudentCode     string     `gorm:"size:32;not null;uniqueIndex:idx_fee_records_cell" json:"student_code"`
	Month           int        `gorm:"not null;uniqueIndex:idx_fee_records_cell" json:"month"`
	Status          string     `gorm:"size:16;not null" json:"status"`
	AmountCollected int        `gorm:"not null;default:0" json:"amount_collected"`
	CreditID        *uint      `gorm:"index" json:"credit_id,omitempty"`
	ReceiptNumber   string     `gorm:"size:64" json:"receipt_number,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	// Version guards concurrent updates of the same cell.
	Version   int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSettled reports whether the record represents a closed month that should
// survive a lifecycle discontinuation (payment history is never rewritten).
func (r FeeRecord) IsSettled() bool {
	return r.Status == FeeStatusPaid || r.Status == FeeStatusBreak
}
