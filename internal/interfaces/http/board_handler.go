package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/board"
	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// BoardHandler expone el tablero del usuario.
type BoardHandler struct {
	board *board.Service
}

// NewBoardHandler construye el handler.
func NewBoardHandler(b *board.Service) *BoardHandler {
	return &BoardHandler{board: b}
}

// Get godoc
// @Summary      Tablero del día
// @Description  Columnas con sus pedidos, mesas, estadísticas y si falta abrir la caja.
// @Tags         board
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.BoardResponse
// @Router       /api/board [get]
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.board.Board(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Reload godoc
// @Summary      Recargar tablero
// @Description  Verifica el cierre diario y relee todo del almacén.
// @Tags         board
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.BoardResponse
// @Router       /api/board/reload [post]
func (h *BoardHandler) Reload(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.board.Load(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RenameColumn godoc
// @Summary      Renombrar columna
// @Tags         board
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        column  path  string                   true  "pedidos | preparando | pronto | finalizados"
// @Param        body    body  dto.RenameColumnRequest  true  "título"
// @Success      200     {object}  dto.BoardResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/board/columns/{column} [put]
func (h *BoardHandler) RenameColumn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RenameColumnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.board.RenameColumn(userID, entity.Column(c.Params("column")), in.Title); err != nil {
		return fail(c, err)
	}
	out, err := h.board.Board(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
