package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/stats"
)

// StatsHandler caja y cierre diario.
type StatsHandler struct {
	uc    *stats.UseCase
	board BoardInvalidator
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *stats.UseCase, board BoardInvalidator) *StatsHandler {
	return &StatsHandler{uc: uc, board: board}
}

// Today godoc
// @Summary      Estadísticas de hoy
// @Description  204 si todavía no se abrió la caja.
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DailyStatsResponse
// @Success      204
// @Router       /api/stats/today [get]
func (h *StatsHandler) Today(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	s, err := h.uc.Today(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	if s == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.FromDailyStats(s))
}

// OpenCashRegister godoc
// @Summary      Abrir caja
// @Tags         stats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.OpenCashRegisterRequest  true  "monto inicial"
// @Success      201   {object}  dto.DailyStatsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stats/cash-opening [post]
func (h *StatsHandler) OpenCashRegister(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.OpenCashRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.OpenCashRegister(c.UserContext(), userID, in.InitialAmount)
	if err != nil {
		return fail(c, err)
	}
	h.board.Invalidate(userID)
	return c.Status(fiber.StatusCreated).JSON(dto.FromDailyStats(s))
}

// ResetCheck godoc
// @Summary      Verificar cierre diario
// @Description  Aplica el reset si ya pasó la hora de corte y no se hizo hoy.
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ResetCheckResponse
// @Router       /api/stats/reset-check [post]
func (h *StatsHandler) ResetCheck(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	reset, err := h.uc.CheckAndReset(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	if reset {
		h.board.Invalidate(userID)
	}
	return c.JSON(dto.ResetCheckResponse{Reset: reset})
}
