package dto

import (
	"time"

	"github.com/shalemacademy/fees-api/internal/models"
)

// StudentCreateRequest carries the payload for enrolling a student.
type StudentCreateRequest struct {
	Code       string `json:"code" validate:"required,alphanum,max=32"`
	Name       string `json:"name" validate:"required,max=255"`
	MonthlyFee int    `json:"monthly_fee" validate:"required,gt=0"`
	JoinMonth  int    `json:"join_month" validate:"gte=0,lte=11"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	WhatsApp   string `json:"whatsapp" validate:"omitempty,max=32"`
}

// StudentResponse is the API shape of a roster entry.
type StudentResponse struct {
	Code            string    `json:"code"`
	Branch          string    `json:"branch"`
	Name            string    `json:"name"`
	MonthlyFee      int       `json:"monthly_fee"`
	JoinMonth       int       `json:"join_month"`
	Phone           string    `json:"phone,omitempty"`
	WhatsApp        string    `json:"whatsapp,omitempty"`
	LifecycleStatus string    `json:"lifecycle_status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewStudentResponse maps a student model to its response shape.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		Code:            student.Code,
		Branch:          student.Branch,
		Name:            student.Name,
		MonthlyFee:      student.MonthlyFee,
		JoinMonth:       student.JoinMonth,
		Phone:           student.Phone,
		WhatsApp:        student.WhatsApp,
		LifecycleStatus: student.LifecycleStatus,
		CreatedAt:       student.CreatedAt,
	}
}

// StudentMonthResponse combines a roster entry with its fee state for one month.
type StudentMonthResponse struct {
	Student         StudentResponse `json:"student"`
	Month           int             `json:"month"`
	Status          string          `json:"status"`
	AmountCollected int             `json:"amount_collected"`
	ReceiptNumber   string          `json:"receipt_number,omitempty"`
	CreditApplied   *CreditResponse `json:"credit_applied,omitempty"`
}
