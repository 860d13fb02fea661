package service

import "errors"

// Sentinel errors surfaced to callers. Handlers map them onto HTTP statuses.
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrCreditNotFound    = errors.New("credit not found")
	ErrDuplicateStudent  = errors.New("student code already exists in this branch")
	ErrInvalidTransition = errors.New("invalid fee status transition")
	ErrCreditAlreadyUsed = errors.New("credit has already been used")
	ErrInvalidMonth      = errors.New("month must be between 0 and 11")
)
