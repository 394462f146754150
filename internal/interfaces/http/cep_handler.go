package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
)

// CEPHandler autocompletado de dirección.
type CEPHandler struct {
	lookup ports.CEPLookup
}

// NewCEPHandler construye el handler.
func NewCEPHandler(lookup ports.CEPLookup) *CEPHandler {
	return &CEPHandler{lookup: lookup}
}

// Lookup godoc
// @Summary      Consultar CEP
// @Description  404 cuando el CEP no existe o el servicio no responde; el cliente completa a mano.
// @Tags         cep
// @Produce      json
// @Security     BearerAuth
// @Param        cep  path  string  true  "CEP (8 dígitos)"
// @Success      200  {object}  dto.CEPAddress
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cep/{cep} [get]
func (h *CEPHandler) Lookup(c *fiber.Ctx) error {
	addr, err := h.lookup.Lookup(c.UserContext(), c.Params("cep"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(addr)
}
