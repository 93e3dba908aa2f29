package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	domainaccess "github.com/jhoicas/pedidos-api/internal/domain/access"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// accessChecker es el contrato mínimo que necesita el middleware para consultar el acceso.
// Lo implementa *access.UseCase.
type accessChecker interface {
	Status(ctx context.Context, auth entity.AuthContext) (domainaccess.Result, error)
}

// RequireActiveAccess bloquea las rutas de negocio cuando la empresa no tiene prueba
// vigente ni suscripción activa. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 402 Payment Required → prueba vencida sin suscripción activa.
//   - 503 Service Unavailable → no se pudo resolver el estado.
//   - Superadmin pasa siempre.
func RequireActiveAccess(checker accessChecker, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := GetAuthContext(c)
		if auth.CompanyID == "" && auth.Role != entity.RoleSuperadmin {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    dto.CodeUnauthorized,
				Message: "company_id no encontrado en el token",
			})
		}

		res, err := checker.Status(c.UserContext(), auth)
		if err != nil {
			log.Error().Err(err).Str("company_id", auth.CompanyID).Msg("no se pudo resolver el acceso")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    dto.CodeAccessCheckFailed,
				Message: "no se pudo verificar la suscripción, intente más tarde",
			})
		}

		if !res.IsActive {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    dto.CodePaymentRequired,
				Message: "período de prueba vencido: contrate un plan para continuar",
			})
		}

		return c.Next()
	}
}
