package dto

import "github.com/shopspring/decimal"

// CheckoutRequest cargo con tarjeta para subir de plan. CardToken lo emite
// el frontend al tokenizar la tarjeta contra la pasarela; el backend nunca
// ve el PAN.
type CheckoutRequest struct {
	Plan      string `json:"plan" validate:"required,oneof=pro"`
	CardToken string `json:"card_token" validate:"required"`
}

// CheckoutResponse resultado del cargo.
type CheckoutResponse struct {
	ChargeID string          `json:"charge_id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Plan     string          `json:"plan"`
}
