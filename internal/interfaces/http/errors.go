package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
)

// errorMapping status y código para un error centinela. Si message está vacío
// se usa err.Error().
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: ErrInvalidTransition envuelve ErrConflict.
var sentinelErrors = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, dto.CodeValidation, ""},
	{domain.ErrNotFound, fiber.StatusNotFound, dto.CodeNotFound, ""},
	{domain.ErrInvalidTransition, fiber.StatusConflict, dto.CodeInvalidTransition, ""},
	{domain.ErrDuplicate, fiber.StatusConflict, dto.CodeConflict, ""},
	{domain.ErrConflict, fiber.StatusConflict, dto.CodeConflict, ""},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, dto.CodeEmailExists, "el email ya está registrado"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, dto.CodeUnauthorized, "credenciales inválidas"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, dto.CodeUnauthorized, "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, dto.CodeForbidden, ""},
	{domain.ErrPaymentRequired, fiber.StatusPaymentRequired, dto.CodePaymentRequired, ""},
	{domain.ErrPartialFailure, fiber.StatusInternalServerError, dto.CodePartialFailure,
		"la suscripción se creó en el proveedor pero no se pudo registrar; se reintentará automáticamente"},
}

// writeError traduce un error de dominio a su status HTTP y a dto.ErrorResponse.
// Los errores no clasificados se registran y salen como 500 INTERNAL.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, verr.Error())
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		log.Warn().Err(err).Str("op", perr.Op).Int("provider_status", perr.Status).Msg("proveedor de cobros rechazó la operación")
		return respondError(c, fiber.StatusInternalServerError, dto.CodeProviderError, perr.Description)
	}
	for _, m := range sentinelErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return respondError(c, m.status, m.code, msg)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return respondError(c, fiber.StatusInternalServerError, dto.CodeInternal, "error interno")
}

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusBadRequest, dto.CodeInvalidBody, "cuerpo inválido")
}
