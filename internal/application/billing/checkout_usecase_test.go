package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturamx/gastos-api/internal/application/billing"
	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/pkg/logger"
)

type fakeGateway struct {
	last    *billing.ChargeRequest
	result  *billing.ChargeResult
	failErr error
}

func (g *fakeGateway) Charge(_ context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	g.last = &req
	if g.failErr != nil {
		return nil, g.failErr
	}
	return g.result, nil
}

type fakeCompanyStore struct {
	company   *entity.Company
	updated   bool
	updateErr error
}

func (s *fakeCompanyStore) Create(_ context.Context, _ *entity.Company) error { return nil }
func (s *fakeCompanyStore) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if s.company != nil && s.company.ID == id {
		return s.company, nil
	}
	return nil, nil
}
func (s *fakeCompanyStore) GetByDomain(_ context.Context, _ string) (*entity.Company, error) {
	return nil, nil
}
func (s *fakeCompanyStore) Update(_ context.Context, c *entity.Company) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.company = c
	s.updated = true
	return nil
}
func (s *fakeCompanyStore) UpdateSyncMetadata(_ context.Context, _ string, _ entity.SyncMetadata) error {
	return nil
}
func (s *fakeCompanyStore) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	return nil, nil
}

func freeCompany() *entity.Company {
	return &entity.Company{
		ID: "comp-1", Name: "Acme", Plan: entity.PlanFree,
		Status: "active", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

var adminTenant = entity.TenantContext{CompanyID: "comp-1", UserID: "u-1", Role: entity.RoleAdmin}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func TestCheckout_CargoAprobadoSubePlan(t *testing.T) {
	gw := &fakeGateway{result: &billing.ChargeResult{ChargeID: "ch_123", Status: "paid", Paid: true}}
	store := &fakeCompanyStore{company: freeCompany()}
	uc := billing.NewCheckoutUseCase(gw, store, testLogger())

	out, err := uc.Checkout(context.Background(), adminTenant, dto.CheckoutRequest{
		Plan: entity.PlanPro, CardToken: "tok_abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_123", out.ChargeID)
	assert.Equal(t, entity.PlanPro, out.Plan)
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("499.00")))
	assert.Equal(t, "MXN", out.Currency)

	require.NotNil(t, gw.last)
	assert.Equal(t, "tok_abc", gw.last.CardToken)
	assert.Equal(t, "comp-1", gw.last.Reference)

	assert.True(t, store.updated)
	assert.Equal(t, entity.PlanPro, store.company.Plan)
}

func TestCheckout_CargoRechazadoNoTocaElPlan(t *testing.T) {
	gw := &fakeGateway{result: &billing.ChargeResult{ChargeID: "ch_9", Status: "declined", Paid: false}}
	store := &fakeCompanyStore{company: freeCompany()}
	uc := billing.NewCheckoutUseCase(gw, store, testLogger())

	_, err := uc.Checkout(context.Background(), adminTenant, dto.CheckoutRequest{
		Plan: entity.PlanPro, CardToken: "tok_abc",
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, store.updated)
	assert.Equal(t, entity.PlanFree, store.company.Plan)
}

func TestCheckout_ErrorDePasarelaNoTocaElPlan(t *testing.T) {
	gw := &fakeGateway{failErr: errors.New("timeout")}
	store := &fakeCompanyStore{company: freeCompany()}
	uc := billing.NewCheckoutUseCase(gw, store, testLogger())

	_, err := uc.Checkout(context.Background(), adminTenant, dto.CheckoutRequest{
		Plan: entity.PlanPro, CardToken: "tok_abc",
	})

	require.Error(t, err)
	assert.False(t, store.updated)
}

func TestCheckout_SoloAdmin(t *testing.T) {
	uc := billing.NewCheckoutUseCase(&fakeGateway{}, &fakeCompanyStore{company: freeCompany()}, testLogger())

	_, err := uc.Checkout(context.Background(),
		entity.TenantContext{CompanyID: "comp-1", UserID: "u-2", Role: entity.RoleUser},
		dto.CheckoutRequest{Plan: entity.PlanPro, CardToken: "tok_abc"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCheckout_EmpresaYaEsPro(t *testing.T) {
	store := &fakeCompanyStore{company: freeCompany()}
	store.company.Plan = entity.PlanPro
	uc := billing.NewCheckoutUseCase(&fakeGateway{}, store, testLogger())

	_, err := uc.Checkout(context.Background(), adminTenant, dto.CheckoutRequest{
		Plan: entity.PlanPro, CardToken: "tok_abc",
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCheckout_PlanDesconocido(t *testing.T) {
	uc := billing.NewCheckoutUseCase(&fakeGateway{}, &fakeCompanyStore{company: freeCompany()}, testLogger())

	_, err := uc.Checkout(context.Background(), adminTenant, dto.CheckoutRequest{
		Plan: "enterprise", CardToken: "tok_abc",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
