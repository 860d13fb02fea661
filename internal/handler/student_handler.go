package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/dto"
	"github.com/shalemacademy/fees-api/internal/service"
	"github.com/shalemacademy/fees-api/internal/utils"
)

// StudentHandler wires roster and per-student credit HTTP routes.
type StudentHandler struct {
	roster  service.RosterService
	credits service.CreditService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(roster service.RosterService, credits service.CreditService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		roster:  roster,
		credits: credits,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the branch-scoped router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:code", h.get)
	router.Get("/:code/credits", h.availableCredits)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	month, err := monthQuery(c, "month")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	students, err := h.roster.ListStudents(c.Context(), branch, month)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.roster.AddStudent(c.Context(), branch, payload)
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", student)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.roster.GetStudent(c.Context(), branch, c.Params("code"))
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) availableCredits(c *fiber.Ctx) error {
	branch, err := branchParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	credits, err := h.credits.Available(c.Context(), branch, c.Params("code"))
	if err != nil {
		return sendServiceError(c, err, h.logInternal)
	}

	return utils.SendSuccess(c, "available credits retrieved", credits)
}

func (h *StudentHandler) logInternal(err error) {
	h.logger.Error().Err(err).Msg("internal server error")
}
