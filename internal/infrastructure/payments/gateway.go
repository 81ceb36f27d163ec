// Package payments adaptador HTTP hacia la pasarela de cobro con tarjeta.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturamx/gastos-api/internal/application/billing"
	"github.com/facturamx/gastos-api/pkg/config"
)

// Verificar en tiempo de compilación que Gateway implementa PaymentGateway.
var _ billing.PaymentGateway = (*Gateway)(nil)

const defaultBaseURL = "https://api.pagos.example.com/v1"

// Gateway cliente REST de la pasarela. El monto viaja en centavos para
// evitar ambigüedad de punto decimal en el wire.
type Gateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGateway construye el adaptador. cfg.APIBaseURL vacío usa la URL real.
func NewGateway(cfg config.PaymentsConfig) *Gateway {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Gateway{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chargeRequest struct {
	Token       string `json:"token"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Paid   bool   `json:"paid"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Charge ejecuta el cargo y devuelve el resultado de la pasarela. Un cargo
// declinado no es error de transporte: llega con Paid en false.
func (g *Gateway) Charge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	payload, err := json.Marshal(chargeRequest{
		Token:       req.CardToken,
		AmountCents: req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    req.Currency,
		Description: req.Description,
		Reference:   req.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("payments: marshal cargo: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("payments: crear request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payments: cargo falló: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("payments: leyendo respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payments: HTTP %d: %s", resp.StatusCode, body)
	}

	var out chargeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("payments: respuesta ilegible: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("payments: %s (%s)", out.Error.Message, out.Error.Code)
	}

	return &billing.ChargeResult{
		ChargeID: out.ID,
		Status:   out.Status,
		Paid:     out.Paid,
	}, nil
}
