package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/application/ledger"
)

// FinancialHandler libro de ingresos y gastos.
type FinancialHandler struct {
	uc  *ledger.UseCase
	log zerolog.Logger
}

// NewFinancialHandler construye el handler del libro.
func NewFinancialHandler(uc *ledger.UseCase, log zerolog.Logger) *FinancialHandler {
	return &FinancialHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar movimientos
// @Tags         financial
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}   dto.TransactionResponse
// @Router       /api/financial/transactions [get]
func (h *FinancialHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar movimiento manual
// @Tags         financial
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTransactionRequest  true  "movimiento"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/financial/transactions [post]
func (h *FinancialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateManual(c.UserContext(), GetAuthContext(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetPaid godoc
// @Summary      Marcar movimiento manual como pagado o pendiente
// @Tags         financial
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "ID del movimiento"
// @Param        body  body  dto.SetPaidRequest  true  "paid"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/financial/transactions/{id}/paid [patch]
func (h *FinancialHandler) SetPaid(c *fiber.Ctx) error {
	var in dto.SetPaidRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetPaid(c.UserContext(), GetAuthContext(c), c.Params("id"), in.Paid)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales del libro
// @Tags         financial
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.LedgerSummaryResponse
// @Router       /api/financial/summary [get]
func (h *FinancialHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
