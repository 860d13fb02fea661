package models

import "time"

// DevExpense is one spend entry against a branch development fund. The ledger
// is append-only: no update or delete path exists.
type DevExpense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Branch      string    `gorm:"size:64;not null;index" json:"branch"`
	Month       int       `gorm:"not null;index" json:"month"`
	Year        int       `gorm:"not null" json:"year"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Amount      int       `gorm:"not null" json:"amount"`
	DateAdded   time.Time `gorm:"not null" json:"date_added"`
	CreatedAt   time.Time `json:"created_at"`
}
