package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
)

// Mensajes al usuario (pt-BR).
const (
	msgInvalidCredentials = "Email ou senha incorretos"
	msgEmailExists        = "Este email já está cadastrado"
	msgOrderFinalized     = "Este pedido já foi finalizado"
	msgTableOccupied      = "Esta mesa já está ocupada"
	msgNotFound           = "Registro não encontrado"
	msgInvalidBody        = "Corpo da requisição inválido"
	msgInternal           = "Erro interno, tente novamente"
)

// fail mapea un error de dominio a status HTTP y dto.ErrorResponse.
func fail(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", msgInternal
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code, msg = fiber.StatusUnauthorized, "INVALID_CREDENTIALS", msgInvalidCredentials
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code, msg = fiber.StatusConflict, "EMAIL_EXISTS", msgEmailExists
	case errors.Is(err, domain.ErrOrderFinalized):
		status, code, msg = fiber.StatusConflict, "ORDER_FINALIZED", msgOrderFinalized
	case errors.Is(err, domain.ErrTableOccupied):
		status, code, msg = fiber.StatusConflict, "TABLE_OCCUPIED", msgTableOccupied
	case errors.Is(err, domain.ErrConflict):
		status, code, msg = fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrDuplicate):
		status, code, msg = fiber.StatusConflict, "DUPLICATE", err.Error()
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", msgNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", "Não autorizado"
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no mapeado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: msgInvalidBody})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

// pathID lee :id en forma canónica. Un id que no es UUID no existe.
func pathID(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", fmt.Errorf("id %q: %w", c.Params("id"), domain.ErrNotFound)
	}
	return id.String(), nil
}
