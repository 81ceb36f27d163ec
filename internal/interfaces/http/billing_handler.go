package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturamx/gastos-api/internal/application/billing"
	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
)

// BillingHandler cobro de planes.
type BillingHandler struct {
	uc *billing.CheckoutUseCase
}

// NewBillingHandler construye el handler de billing.
func NewBillingHandler(uc *billing.CheckoutUseCase) *BillingHandler {
	return &BillingHandler{uc: uc}
}

// Checkout godoc
// @Summary      Contratar el plan pro (solo admin)
// @Description  Cobra la suscripción con el token de tarjeta y sube el plan de la empresa si el cargo es aprobado.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "plan y card_token"
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/billing/checkout [post]
func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Checkout(c.UserContext(), Tenant(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operación reservada a administradores"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
		default:
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "PAYMENT_FAILED", Message: err.Error()})
		}
	}
	return c.JSON(out)
}
