package reporting

import (
	"context"
	"fmt"
	"strconv"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
)

// DefaultPageSize tamaño de página del listado cuando el caller no lo indica.
const DefaultPageSize = 20

// MaxPageSize techo de página para no cargar el storage.
const MaxPageSize = 100

// ListQuery parámetros de una consulta de gastos.
type ListQuery struct {
	Filter repository.ExpenseFilter
	Sort   repository.ExpenseSort
	Limit  int
	Cursor string // opaco para el caller; vacío = primera página
}

// ExpenseUseCase listado y resumen de gastos del dashboard.
type ExpenseUseCase struct {
	expenses repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(expenses repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{expenses: expenses}
}

// List devuelve una página de gastos del tenant. Los callers sin rol admin
// quedan siempre acotados a sus propios gastos, ignorando el filtro de
// usuario que hubieran enviado. El resumen agregado solo acompaña a la
// primera página de la consulta, y el desglose por usuario solo a admins.
func (uc *ExpenseUseCase) List(ctx context.Context, tenant entity.TenantContext, q ListQuery) (*dto.ExpenseListResponse, error) {
	if !tenant.IsAdmin() {
		q.Filter.UserID = tenant.UserID
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}

	// limit+1 para saber si hay otra página sin una segunda consulta.
	rows, err := uc.expenses.List(ctx, tenant.CompanyID, q.Filter, q.Sort, limit+1, offset)
	if err != nil {
		return nil, fmt.Errorf("listar gastos: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	resp := &dto.ExpenseListResponse{
		Expenses: make([]dto.ExpenseResponse, 0, len(rows)),
		HasMore:  hasMore,
	}
	for _, e := range rows {
		resp.Expenses = append(resp.Expenses, toExpenseResponse(e))
	}
	if hasMore {
		resp.NextCursor = encodeCursor(offset + limit)
	}

	// Primera página: recalcular el agregado sobre el conjunto completo.
	if offset == 0 {
		all, err := uc.expenses.ListAll(ctx, tenant.CompanyID, q.Filter)
		if err != nil {
			return nil, fmt.Errorf("agregado de gastos: %w", err)
		}
		resp.Summary = Summarize(all, tenant.IsAdmin())
	}

	return resp, nil
}

// ListAll devuelve el conjunto completo filtrado (reporte PDF).
func (uc *ExpenseUseCase) ListAll(ctx context.Context, tenant entity.TenantContext, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	if !tenant.IsAdmin() {
		f.UserID = tenant.UserID
	}
	return uc.expenses.ListAll(ctx, tenant.CompanyID, f)
}

// El cursor es un offset serializado; opaco para el caller, que solo debe
// devolverlo tal cual en la siguiente petición.
func encodeCursor(offset int) string {
	return strconv.Itoa(offset)
}

func decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: cursor %q", domain.ErrInvalidInput, cursor)
	}
	return offset, nil
}

func toExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID,
		ExternalID:  e.ExternalID,
		UserID:      e.UserID,
		UserName:    e.UserName,
		UserEmail:   e.UserEmail,
		Name:        e.Name,
		Description: e.Description,
		Monto:       e.Amount,
		Fecha:       e.Date,
		Proveedor:   e.Vendor,
		Categoria:   e.Category,
		Estado:      e.Status,
		ReceiptURL:  e.ReceiptURL,
		InvoiceURL:  e.InvoiceURL,
		InvoiceUUID: e.InvoiceUUID,
		Folio:       e.Folio,
		VendorRFC:   e.VendorRFC,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		SyncedAt:    e.SyncedAt,
	}
}
