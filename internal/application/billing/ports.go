package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest cargo a ejecutar contra la pasarela de pagos.
type ChargeRequest struct {
	CardToken   string
	Amount      decimal.Decimal
	Currency    string
	Description string
	// Reference viaja a la pasarela para conciliar el cargo con el tenant.
	Reference string
}

// ChargeResult respuesta de la pasarela.
type ChargeResult struct {
	ChargeID string
	Status   string
	Paid     bool
}

// PaymentGateway puerto hacia la pasarela de tarjetas. La implementación
// HTTP vive en infrastructure/payments.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
