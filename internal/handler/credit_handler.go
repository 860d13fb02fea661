package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/service"
	"github.com/shalemacademy/fees-api/internal/utils"
)

// CreditHandler wires the branch-wide referral credit routes.
type CreditHandler struct {
	credits service.CreditService
	logger  zerolog.Logger
}

// NewCreditHandler constructs the handler.
func NewCreditHandler(credits service.CreditService, logger zerolog.Logger) *CreditHandler {
	return &CreditHandler{
		credits: credits,
		logger:  logger.With().Str("component", "credit_handler").Logger(),
	}
}

// Register attaches credit endpoints to the branch-scoped router group.
func (h *CreditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.issue)
}

func (h *CreditHandler) list(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	credits, err := h.credits.ListByBranch(c.Context(), branch)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "credits retrieved", credits)
}

func (h *CreditHandler) issue(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CreditIssueRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	credit, err := h.credits.Issue(c.Context(), branch, payload)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "referral credit issued", credit)
}

func (h *CreditHandler) logInternal(err error) {
	h.logger.Error().Err(err).Msg("internal server error")
}
