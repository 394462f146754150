package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/tables"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// BoardInvalidator fuerza la recarga del tablero tras cambios hechos por fuera de él.
type BoardInvalidator interface {
	Invalidate(userID string)
}

// TableHandler configuración y estado manual de mesas.
type TableHandler struct {
	uc    *tables.UseCase
	board BoardInvalidator
}

// NewTableHandler construye el handler.
func NewTableHandler(uc *tables.UseCase, board BoardInvalidator) *TableHandler {
	return &TableHandler{uc: uc, board: board}
}

// List godoc
// @Summary      Listar mesas
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.TablesResponse
// @Router       /api/tables [get]
func (h *TableHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.List(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.FromTables(list))
}

// Configure godoc
// @Summary      Configurar mesas
// @Description  Reemplaza todas las mesas por 1..count (1 a 100), libres y con capacidad 4.
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ConfigureTablesRequest  true  "cantidad"
// @Success      200   {object}  dto.TablesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tables/configure [post]
func (h *TableHandler) Configure(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ConfigureTablesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	list, err := h.uc.Configure(c.UserContext(), userID, in.Count)
	if err != nil {
		return fail(c, err)
	}
	h.board.Invalidate(userID)
	return c.JSON(dto.FromTables(list))
}

// DeleteAll godoc
// @Summary      Eliminar todas las mesas
// @Tags         tables
// @Security     BearerAuth
// @Success      204
// @Router       /api/tables [delete]
func (h *TableHandler) DeleteAll(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.DeleteAll(c.UserContext(), userID); err != nil {
		return fail(c, err)
	}
	h.board.Invalidate(userID)
	return c.SendStatus(fiber.StatusNoContent)
}

// SetStatus godoc
// @Summary      Cambiar estado de una mesa
// @Description  Solo libre ↔ reservada; una mesa ocupada se libera al finalizar su pedido.
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "ID de la mesa"
// @Param        body  body  dto.SetTableStatusRequest  true  "estado"
// @Success      200   {object}  dto.TableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/status [patch]
func (h *TableHandler) SetStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SetTableStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	t, err := h.uc.SetStatus(c.UserContext(), userID, id, entity.TableStatus(in.Status))
	if err != nil {
		return fail(c, err)
	}
	h.board.Invalidate(userID)
	return c.JSON(dto.TableResponse{ID: t.ID, Number: t.Number, Capacity: t.Capacity, Status: string(t.Status)})
}
