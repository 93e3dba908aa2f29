package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/access"
	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
)

// SubscriptionHandler estado de acceso, catálogo de planes y contratación.
type SubscriptionHandler struct {
	access       *access.UseCase
	provisioning *billing.ProvisioningUseCase
	log          zerolog.Logger
}

// NewSubscriptionHandler construye el handler de suscripciones.
func NewSubscriptionHandler(accessUC *access.UseCase, provisioning *billing.ProvisioningUseCase, log zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{access: accessUC, provisioning: provisioning, log: log}
}

// Status godoc
// @Summary      Estado de acceso de la empresa
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.AccessStatusResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/subscription/status [get]
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	out, err := h.access.StatusResponse(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListPlans godoc
// @Summary      Catálogo de planes
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}   dto.PlanResponse
// @Router       /api/plans [get]
func (h *SubscriptionHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.provisioning.ListPlans(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Contratar un plan (tarjeta o PIX)
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSubscriptionRequest  true  "plan y medio de pago"
// @Success      200   {object}  dto.CreateSubscriptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/subscriptions [post]
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.provisioning.CreateSubscription(c.UserContext(), GetAuthContext(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetPix godoc
// @Summary      QR PIX del primer cobro
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la suscripción local"
// @Success      200  {object}  dto.PixPaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/pix [get]
func (h *SubscriptionHandler) GetPix(c *fiber.Ctx) error {
	out, err := h.provisioning.GetPixPayment(c.UserContext(), GetAuthContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
