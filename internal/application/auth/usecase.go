// Package auth implementa registro y login, incluido el onboarding
// multi-tenant por dominio de correo: un correo corporativo cuyo dominio ya
// pertenece a una empresa inscribe al empleado automáticamente; si nadie
// reclama el dominio, el usuario puede fundar la empresa y queda como admin.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/pkg/jwt"
	"github.com/facturamx/gastos-api/pkg/rfc"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y onboarding.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario y resuelve su empresa por dominio de correo:
//
//  1. dominio corporativo ya reclamado -> se inscribe como user de esa empresa;
//  2. dominio corporativo libre + CompanyName -> funda la empresa y es admin;
//  3. dominio público (gmail, hotmail, ...) + CompanyName -> funda la empresa
//     sin reclamar el dominio como llave de auto-inscripción;
//  4. sin empresa que lo reciba y sin CompanyName -> queda pendiente de onboarding.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	emailDomain := entity.EmailDomain(email)
	if emailDomain == "" {
		return nil, fmt.Errorf("%w: correo inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: el password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleUser,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resp := &dto.RegisterResponse{}
	switch {
	case !entity.IsPublicEmailDomain(emailDomain):
		company, err := uc.companyRepo.GetByDomain(ctx, emailDomain)
		if err != nil {
			return nil, err
		}
		if company != nil {
			// Auto-inscripción: el dominio ya pertenece a una empresa.
			user.CompanyID = company.ID
			user.Onboarded = true
			resp.CompanyID = company.ID
			resp.CompanyName = company.Name
			break
		}
		if in.CompanyName != "" {
			company, err := uc.createCompany(ctx, in, emailDomain, now)
			if err != nil {
				return nil, err
			}
			user.CompanyID = company.ID
			user.Role = entity.RoleAdmin
			user.Onboarded = true
			resp.CompanyCreated = true
			resp.CompanyID = company.ID
			resp.CompanyName = company.Name
		}
	case in.CompanyName != "":
		// Correo personal: la empresa se crea sin dominio de auto-inscripción.
		company, err := uc.createCompany(ctx, in, "", now)
		if err != nil {
			return nil, err
		}
		user.CompanyID = company.ID
		user.Role = entity.RoleAdmin
		user.Onboarded = true
		resp.CompanyCreated = true
		resp.CompanyID = company.ID
		resp.CompanyName = company.Name
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp.User = *toUserResponse(user)
	return resp, nil
}

func (uc *AuthUseCase) createCompany(ctx context.Context, in dto.RegisterRequest, companyDomain string, now time.Time) (*entity.Company, error) {
	companyRFC := rfc.Normalize(in.CompanyRFC)
	if companyRFC != "" {
		if err := rfc.Validate(companyRFC); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.CompanyName),
		Domain:    companyDomain,
		RFC:       companyRFC,
		Plan:      entity.PlanFree,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		Onboarded: u.Onboarded,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
