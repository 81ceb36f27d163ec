package repository

import (
	"context"

	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// GetByDomain busca la empresa dueña de un dominio de correo corporativo.
	// Devuelve nil, nil si ningún tenant reclama ese dominio.
	GetByDomain(ctx context.Context, domain string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// UpdateSyncMetadata deja en la empresa la huella de la última corrida
	// de sincronización (items, éxito, timestamp).
	UpdateSyncMetadata(ctx context.Context, companyID string, meta entity.SyncMetadata) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}
