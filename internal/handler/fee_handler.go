package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/service"
	"github.com/shalemacademy/fees-api/internal/utils"
)

// FeeHandler wires the fee state machine actions.
type FeeHandler struct {
	fees   service.FeeStatusService
	logger zerolog.Logger
}

// NewFeeHandler constructs the handler.
func NewFeeHandler(fees service.FeeStatusService, logger zerolog.Logger) *FeeHandler {
	return &FeeHandler{
		fees:   fees,
		logger: logger.With().Str("component", "fee_handler").Logger(),
	}
}

// Register attaches fee action endpoints to the branch-scoped students group.
func (h *FeeHandler) Register(router fiber.Router) {
	router.Get("/:code/fees/:month", h.status)
	router.Post("/:code/fees/:month/pay", h.pay)
	router.Post("/:code/fees/:month/break", h.markBreak)
	router.Post("/:code/fees/:month/discontinue", h.discontinue)
}

func (h *FeeHandler) status(c *fiber.Ctx) error {
	branch, code, month, err := h.cellParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	status, err := h.fees.GetStatus(c.Context(), branch, code, month)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "fee status retrieved", status)
}

func (h *FeeHandler) pay(c *fiber.Ctx) error {
	branch, code, month, err := h.cellParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	// The body is optional; supplying a credit id turns the action into an
	// atomic pay-with-credit.
	var payload dto.PayRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	var status dto.FeeStatusResponse
	if payload.CreditID != nil {
		status, err = h.fees.MarkPaidWithCredit(c.Context(), branch, code, month, *payload.CreditID)
	} else {
		status, err = h.fees.MarkPaid(c.Context(), branch, code, month)
	}
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "fee marked paid", status)
}

func (h *FeeHandler) markBreak(c *fiber.Ctx) error {
	branch, code, month, err := h.cellParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	status, err := h.fees.MarkBreak(c.Context(), branch, code, month)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "fee month marked break", status)
}

func (h *FeeHandler) discontinue(c *fiber.Ctx) error {
	branch, code, month, err := h.cellParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	status, err := h.fees.MarkDiscontinued(c.Context(), branch, code, month)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "student discontinued", status)
}

func (h *FeeHandler) cellParams(c *fiber.Ctx) (string, string, int, error) {
	branch, err := branchParam(c)
	if err != nil {
		return "", "", 0, err
	}

	month, err := monthParam(c, "month")
	if err != nil {
		return "", "", 0, err
	}

	return branch, c.Params("code"), month, nil
}

func (h *FeeHandler) logInternal(err error) {
	h.logger.Error().Err(err).Msg("internal server error")
}
