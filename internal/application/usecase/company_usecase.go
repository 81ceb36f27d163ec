package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/pkg/rfc"
)

// CompanyUseCase casos de uso de empresa, siempre acotados al tenant del
// token. Un usuario común solo consulta; la edición exige rol admin.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
}

func NewCompanyUseCase(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, userRepo: userRepo}
}

// Get devuelve la empresa del tenant autenticado.
func (uc *CompanyUseCase) Get(ctx context.Context, tenant entity.TenantContext) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// Update aplica cambios parciales a la empresa del tenant. Solo admin.
// El RFC, si se envía, debe ser un RFC válido del SAT.
func (uc *CompanyUseCase) Update(ctx context.Context, tenant entity.TenantContext, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if !tenant.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		company.Name = *in.Name
	}
	if in.RFC != nil {
		normalized := rfc.Normalize(*in.RFC)
		if normalized != "" {
			if err := rfc.Validate(normalized); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
		}
		company.RFC = normalized
	}
	if in.BoardID != nil {
		company.BoardID = *in.BoardID
	}
	if in.DriveFolderID != nil {
		company.DriveFolderID = *in.DriveFolderID
	}
	company.UpdatedAt = time.Now().UTC()

	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ListUsers devuelve los usuarios de la empresa del tenant. Solo admin.
func (uc *CompanyUseCase) ListUsers(ctx context.Context, tenant entity.TenantContext) (*dto.UserListResponse, error) {
	if !tenant.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := uc.userRepo.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{Items: make([]dto.UserResponse, 0, len(users))}
	for _, u := range users {
		out.Items = append(out.Items, dto.UserResponse{
			ID:        u.ID,
			CompanyID: u.CompanyID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
			Status:    u.Status,
			Onboarded: u.Onboarded,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}
	return out, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		Domain:        c.Domain,
		RFC:           c.RFC,
		BoardID:       c.BoardID,
		DriveFolderID: c.DriveFolderID,
		Plan:          c.Plan,
		Status:        c.Status,
		LastSyncAt:    c.LastSyncAt,
		LastSyncItems: c.LastSyncItems,
		LastSyncOK:    c.LastSyncOK,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
