package repository

import (
	"context"
	"time"

	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// ExpenseFilter filtros opcionales de listado (campo vacío = sin filtro).
type ExpenseFilter struct {
	UserID   string
	Status   string
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ExpenseSort orden del listado. SortBy admite fecha, monto, proveedor y
// estado; vacío ordena por fecha.
type ExpenseSort struct {
	SortBy string
	Desc   bool
}

// ExpenseRepository puerto de persistencia para Expense, incluido el motor
// de reconciliación: Upsert decide crear-o-actualizar usando la llave
// (company_id, external_id) y debe ser atómico por item.
type ExpenseRepository interface {
	// Upsert inserta el gasto o, si ya existe uno con el mismo external_id
	// del tenant, sobreescribe sus campos mutables y avanza updated_at y
	// synced_at. Informa si el registro fue creado (true) o actualizado.
	Upsert(ctx context.Context, e *entity.Expense) (created bool, err error)
	FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.Expense, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.Expense, error)
	Update(ctx context.Context, e *entity.Expense) error
	// List devuelve hasta limit gastos del tenant a partir de offset.
	List(ctx context.Context, companyID string, f ExpenseFilter, s ExpenseSort, limit, offset int) ([]*entity.Expense, error)
	// ListAll devuelve el conjunto completo filtrado, para el agregador de
	// resúmenes y el reporte PDF.
	ListAll(ctx context.Context, companyID string, f ExpenseFilter) ([]*entity.Expense, error)
}
