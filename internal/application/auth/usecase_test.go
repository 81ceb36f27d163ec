package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturamx/gastos-api/internal/application/auth"
	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct{ byEmail map[string]*entity.User }

func newMemUserRepo() *memUserRepo { return &memUserRepo{byEmail: map[string]*entity.User{}} }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.byEmail[strings.ToLower(u.Email)] = u
	return nil
}
func (r *memUserRepo) GetByID(_ context.Context, _ string) (*entity.User, error) { return nil, nil }
func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byEmail[strings.ToLower(email)], nil
}
func (r *memUserRepo) ListByCompany(_ context.Context, _ string) ([]*entity.User, error) {
	return nil, nil
}
func (r *memUserRepo) Update(_ context.Context, _ *entity.User) error { return nil }

type memCompanyRepo struct{ byDomain map[string]*entity.Company }

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{byDomain: map[string]*entity.Company{}}
}

func (r *memCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	if c.Domain != "" {
		r.byDomain[c.Domain] = c
	}
	return nil
}
func (r *memCompanyRepo) GetByID(_ context.Context, _ string) (*entity.Company, error) {
	return nil, nil
}
func (r *memCompanyRepo) GetByDomain(_ context.Context, d string) (*entity.Company, error) {
	return r.byDomain[d], nil
}
func (r *memCompanyRepo) Update(_ context.Context, _ *entity.Company) error { return nil }
func (r *memCompanyRepo) UpdateSyncMetadata(_ context.Context, _ string, _ entity.SyncMetadata) error {
	return nil
}
func (r *memCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	return nil, nil
}

func newAuthUC(users *memUserRepo, companies *memCompanyRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(users, companies, auth.JWTConfig{
		Secret: "test-secret", ExpMinutes: 60, Issuer: "test",
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de onboarding por dominio
// ──────────────────────────────────────────────────────────────────────────────

// Quien funda la empresa recibe rol admin y reclama el dominio corporativo.
func TestRegister_FundadorEsAdmin(t *testing.T) {
	users, companies := newMemUserRepo(), newMemCompanyRepo()

	out, err := newAuthUC(users, companies).Register(context.Background(), dto.RegisterRequest{
		Email:       "dueno@acme.mx",
		Password:    "secreto-largo",
		Name:        "Dueño",
		CompanyName: "Acme SA de CV",
		CompanyRFC:  "AAA010101AA1",
	})

	require.NoError(t, err)
	assert.True(t, out.CompanyCreated)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.True(t, out.User.Onboarded)
	require.NotNil(t, companies.byDomain["acme.mx"], "el dominio corporativo queda reclamado")
	assert.Equal(t, "AAA010101AA1", companies.byDomain["acme.mx"].RFC)
	assert.Equal(t, entity.PlanFree, companies.byDomain["acme.mx"].Plan)
}

// El segundo registro con el mismo dominio se auto-inscribe como user, sin
// crear otra empresa.
func TestRegister_AutoInscripcionPorDominio(t *testing.T) {
	users, companies := newMemUserRepo(), newMemCompanyRepo()
	uc := newAuthUC(users, companies)

	fundador, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "dueno@acme.mx", Password: "secreto-largo", CompanyName: "Acme",
	})
	require.NoError(t, err)

	empleado, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "empleado@acme.mx", Password: "otro-secreto",
	})
	require.NoError(t, err)

	assert.False(t, empleado.CompanyCreated)
	assert.Equal(t, fundador.CompanyID, empleado.CompanyID, "mismo tenant por dominio")
	assert.Equal(t, entity.RoleUser, empleado.User.Role)
	assert.True(t, empleado.User.Onboarded)
}

// Un dominio público jamás sirve de llave de auto-inscripción.
func TestRegister_DominioPublicoNoAutoInscribe(t *testing.T) {
	users, companies := newMemUserRepo(), newMemCompanyRepo()
	uc := newAuthUC(users, companies)

	primero, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "uno@gmail.com", Password: "secreto-largo", CompanyName: "Changarrito",
	})
	require.NoError(t, err)
	assert.True(t, primero.CompanyCreated)
	assert.Nil(t, companies.byDomain["gmail.com"], "gmail.com no debe quedar reclamado")

	segundo, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "dos@gmail.com", Password: "secreto-largo",
	})
	require.NoError(t, err)
	assert.Empty(t, segundo.CompanyID, "otro gmail no se une a la empresa del primero")
	assert.False(t, segundo.User.Onboarded)
}

// Sin empresa que lo reciba y sin CompanyName: usuario pendiente de onboarding.
func TestRegister_SinEmpresaQuedaPendiente(t *testing.T) {
	out, err := newAuthUC(newMemUserRepo(), newMemCompanyRepo()).
		Register(context.Background(), dto.RegisterRequest{
			Email: "solo@empresa-nueva.mx", Password: "secreto-largo",
		})
	require.NoError(t, err)
	assert.Empty(t, out.User.CompanyID)
	assert.False(t, out.User.Onboarded)
}

func TestRegister_CorreoDuplicado(t *testing.T) {
	users, companies := newMemUserRepo(), newMemCompanyRepo()
	uc := newAuthUC(users, companies)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "uno@acme.mx", Password: "secreto-largo", CompanyName: "Acme",
	})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{
		Email: "UNO@acme.mx", Password: "secreto-largo",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "el correo es único sin importar mayúsculas")
}

func TestRegister_RFCInvalidoRechazado(t *testing.T) {
	_, err := newAuthUC(newMemUserRepo(), newMemCompanyRepo()).
		Register(context.Background(), dto.RegisterRequest{
			Email: "dueno@acme.mx", Password: "secreto-largo",
			CompanyName: "Acme", CompanyRFC: "NO-ES-RFC",
		})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesYEstados(t *testing.T) {
	users, companies := newMemUserRepo(), newMemCompanyRepo()
	uc := newAuthUC(users, companies)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "dueno@acme.mx", Password: "secreto-largo", CompanyName: "Acme",
	})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "dueno@acme.mx", Password: "secreto-largo"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "dueno@acme.mx", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.mx", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
