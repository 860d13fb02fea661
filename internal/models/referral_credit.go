package models

import "time"

// ReferralCredit is a promotional balance granted to a student for referring
// another. A credit is never deleted; it only moves from unused to used, and
// its amount is immutable after issuance.
type ReferralCredit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Branch      string     `gorm:"size:64;not null;index" json:"branch"`
	StudentCode string     `gorm:"size:32;not null;index:idx_credits_student" json:"student_code"`
	Amount      int        `gorm:"not null" json:"amount"`
	Reason      string     `gorm:"size:255;not null" json:"reason"`
	Description string     `gorm:"size:255" json:"description,omitempty"`
	DateEarned  time.Time  `gorm:"not null" json:"date_earned"`
	IsUsed      bool       `gorm:"not null;default:false;index" json:"is_used"`
	UsedInMonth *int       `json:"used_in_month,omitempty"`
	UsedDate    *time.Time `json:"used_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
