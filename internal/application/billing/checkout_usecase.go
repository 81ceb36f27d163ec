package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/pkg/logger"
)

// Precio mensual del plan pro en MXN.
var proPriceMXN = decimal.RequireFromString("499.00")

const currencyMXN = "MXN"

// CheckoutUseCase cobra la suscripción y sube el plan de la empresa.
type CheckoutUseCase struct {
	gateway     PaymentGateway
	companyRepo repository.CompanyRepository
	log         *logger.Logger
}

func NewCheckoutUseCase(gateway PaymentGateway, companyRepo repository.CompanyRepository, log *logger.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{gateway: gateway, companyRepo: companyRepo, log: log}
}

// Checkout ejecuta el cargo del plan solicitado y, solo si la pasarela lo
// confirma pagado, actualiza el plan de la empresa. Solo admin.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, tenant entity.TenantContext, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if !tenant.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Plan != entity.PlanPro {
		return nil, fmt.Errorf("%w: plan desconocido %q", domain.ErrInvalidInput, in.Plan)
	}
	if in.CardToken == "" {
		return nil, fmt.Errorf("%w: falta el token de tarjeta", domain.ErrInvalidInput)
	}

	company, err := uc.companyRepo.GetByID(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if company.Plan == entity.PlanPro {
		return nil, fmt.Errorf("%w: la empresa ya tiene plan pro", domain.ErrConflict)
	}

	result, err := uc.gateway.Charge(ctx, ChargeRequest{
		CardToken:   in.CardToken,
		Amount:      proPriceMXN,
		Currency:    currencyMXN,
		Description: fmt.Sprintf("Suscripción %s - %s", in.Plan, company.Name),
		Reference:   company.ID,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", company.ID).Msg("cargo rechazado por la pasarela")
		return nil, err
	}
	if !result.Paid {
		return nil, fmt.Errorf("%w: cargo no aprobado (estado %s)", domain.ErrConflict, result.Status)
	}

	company.Plan = entity.PlanPro
	company.UpdatedAt = time.Now().UTC()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		// El cargo ya pasó; el plan se reintenta en soporte con el charge_id.
		uc.log.Error().Err(err).
			Str("company_id", company.ID).
			Str("charge_id", result.ChargeID).
			Msg("cargo aprobado pero no se pudo actualizar el plan")
		return nil, err
	}

	uc.log.Info().
		Str("company_id", company.ID).
		Str("charge_id", result.ChargeID).
		Msg("empresa actualizada a plan pro")

	return &dto.CheckoutResponse{
		ChargeID: result.ChargeID,
		Status:   result.Status,
		Amount:   proPriceMXN,
		Currency: currencyMXN,
		Plan:     entity.PlanPro,
	}, nil
}
