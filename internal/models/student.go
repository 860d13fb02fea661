package models

import "time"

// Lifecycle states a student can be in.
const (
	StudentStatusActive       = "active"
	StudentStatusDiscontinued = "discontinued"
)

// Student represents an enrolled student of a branch. Code is the human-assigned
// roll identifier and is unique within a branch, not globally.
type Student struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"size:32;not null;uniqueIndex:idx_students_branch_code" json:"code"`
	Branch          string    `gorm:"size:64;not null;uniqueIndex:idx_students_branch_code;index" json:"branch"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	MonthlyFee      int       `gorm:"not null" json:"monthly_fee"`
	JoinMonth       int       `gorm:"not null" json:"join_month"`
	Phone           string    `gorm:"size:32" json:"phone"`
	WhatsApp        string    `gorm:"size:32" json:"whatsapp"`
	LifecycleStatus string    `gorm:"size:16;not null;default:'active'" json:"lifecycle_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsActive reports whether the student still participates in monthly billing.
func (s Student) IsActive() bool {
	return s.LifecycleStatus == StudentStatusActive
}
