package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/service"
	"github.com/shalemacademy/fees-api/internal/utils"
)

// FinanceHandler wires the financial reconciliation routes.
type FinanceHandler struct {
	finance  service.FinanceService
	expenses service.ExpenseService
	logger   zerolog.Logger
}

// NewFinanceHandler constructs the handler.
func NewFinanceHandler(finance service.FinanceService, expenses service.ExpenseService, logger zerolog.Logger) *FinanceHandler {
	return &FinanceHandler{
		finance:  finance,
		expenses: expenses,
		logger:   logger.With().Str("component", "finance_handler").Logger(),
	}
}

// Register attaches finance endpoints to the branch-scoped router group.
func (h *FinanceHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
	router.Get("/development-fund", h.developmentFund)
	router.Post("/expenses", h.addExpense)
}

func (h *FinanceHandler) summary(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	month, err := monthQuery(c, "month")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.finance.Summarize(c.Context(), branch, month)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "financial summary retrieved", summary)
}

func (h *FinanceHandler) developmentFund(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fund, err := h.finance.DevelopmentFund(c.Context(), branch)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "development fund retrieved", fund)
}

func (h *FinanceHandler) addExpense(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExpenseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	expense, err := h.expenses.Add(c.Context(), branch, payload)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "development expense recorded", expense)
}

func (h *FinanceHandler) logInternal(err error) {
	h.logger.Error().Err(err).Msg("internal server error")
}
