package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
)

// WebhookSignatureHeader cabecera con la firma HMAC-SHA256 (hex) del cuerpo crudo.
const WebhookSignatureHeader = "asaas-access-token"

// WebhookHandler recibe las notificaciones del proveedor de cobros.
// Responde con el contrato del proveedor ({received:true} / {error}), no con dto.ErrorResponse.
type WebhookHandler struct {
	uc  *billing.WebhookUseCase
	log zerolog.Logger
}

// NewWebhookHandler construye el handler del webhook.
func NewWebhookHandler(uc *billing.WebhookUseCase, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{uc: uc, log: log}
}

// Receive godoc
// @Summary      Notificación de cobro del proveedor
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        asaas-access-token  header  string  true  "HMAC-SHA256 hex del cuerpo"
// @Success      200   {object}  dto.WebhookAck
// @Failure      401   {object}  dto.WebhookError
// @Failure      500   {object}  dto.WebhookError
// @Router       /api/webhooks/asaas [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	// Body() devuelve un slice reutilizado por fasthttp; se copia antes de verificar.
	body := append([]byte(nil), c.Body()...)
	outcome, err := h.uc.Handle(c.UserContext(), body, c.Get(WebhookSignatureHeader))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.WebhookError{Error: "invalid signature"})
		}
		h.log.Error().Err(err).Str("outcome", outcome).Msg("webhook no procesado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.WebhookError{Error: "internal error"})
	}
	return c.JSON(dto.WebhookAck{Received: true})
}
