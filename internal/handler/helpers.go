package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/shalemacademy/fees-api/internal/service"
	"github.com/shalemacademy/fees-api/internal/utils"
)

func branchParam(c *fiber.Ctx) (string, error) {
	branch := strings.TrimSpace(c.Params("branch"))
	if branch == "" {
		return "", errors.New("branch is required")
	}
	return branch, nil
}

func monthParam(c *fiber.Ctx, name string) (int, error) {
	value := strings.TrimSpace(c.Params(name))
	month, err := strconv.Atoi(value)
	if err != nil || month < 0 || month > 11 {
		return 0, errors.New("month must be between 0 and 11")
	}
	return month, nil
}

func monthQuery(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	month, err := strconv.Atoi(value)
	if err != nil || month < 0 || month > 11 {
		return 0, errors.New("month must be between 0 and 11")
	}
	return month, nil
}

// sendServiceError maps service sentinels onto the response envelope. Unknown
// errors become a generic 500 after logging; transition conflicts are 409 so
// callers can tell "retry will not help" apart from bad input.
func sendServiceError(c *fiber.Ctx, err error, logInternal func(error)) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrCreditNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "credit not found")
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, "invalid fee status transition")
	case errors.Is(err, service.ErrCreditAlreadyUsed):
		return utils.SendError(c, fiber.StatusConflict, "credit has already been used")
	case errors.Is(err, service.ErrDuplicateStudent):
		return utils.SendError(c, fiber.StatusBadRequest, "student code already exists in this branch")
	case errors.Is(err, service.ErrInvalidMonth):
		return utils.SendError(c, fiber.StatusBadRequest, "month must be between 0 and 11")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		logInternal(err)
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
