package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL.
// Es el motor de reconciliación: la llave natural (company_id, external_id)
// decide si un item del tablero crea o actualiza un gasto.
type ExpenseRepo struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository construye el adaptador de persistencia para gastos.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

const expenseColumns = `id, company_id, external_id, user_id, user_name, user_email,
	name, description, amount, date, vendor, category, status,
	receipt_url, invoice_url, invoice_uuid, folio, vendor_rfc, notes,
	created_at, updated_at, synced_at`

// Orden permitido en List; cualquier otro valor cae a fecha.
var sortColumns = map[string]string{
	"fecha":     "date",
	"monto":     "amount",
	"proveedor": "vendor",
	"estado":    "status",
}

// upsertExpenseQuery reconcilia un item del tablero contra la fila existente.
// El tablero manda sobre todos los campos mapeados, con dos excepciones:
//
//   - invoice_uuid solo lo escribe AttachInvoice; una fila con invoice_uuid
//     no vacío tiene un CFDI timbrado localmente y su bloque de factura
//     (estado, invoice_url, folio, vendor_rfc) no se regresa al tablero.
//   - receipt_url del tablero solo gana cuando trae valor; una celda vacía
//     no borra un comprobante subido localmente.
const upsertExpenseQuery = `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (company_id, external_id) DO UPDATE SET
			user_id     = EXCLUDED.user_id,
			user_name   = EXCLUDED.user_name,
			user_email  = EXCLUDED.user_email,
			name        = EXCLUDED.name,
			description = EXCLUDED.description,
			amount      = EXCLUDED.amount,
			date        = EXCLUDED.date,
			vendor      = EXCLUDED.vendor,
			category    = EXCLUDED.category,
			notes       = EXCLUDED.notes,
			status      = CASE WHEN expenses.invoice_uuid <> '' THEN expenses.status ELSE EXCLUDED.status END,
			invoice_url = CASE WHEN expenses.invoice_uuid <> '' THEN expenses.invoice_url ELSE EXCLUDED.invoice_url END,
			folio       = CASE WHEN expenses.invoice_uuid <> '' THEN expenses.folio ELSE EXCLUDED.folio END,
			vendor_rfc  = CASE WHEN expenses.invoice_uuid <> '' THEN expenses.vendor_rfc ELSE EXCLUDED.vendor_rfc END,
			receipt_url = CASE WHEN EXCLUDED.receipt_url <> '' THEN EXCLUDED.receipt_url ELSE expenses.receipt_url END,
			updated_at  = EXCLUDED.updated_at,
			synced_at   = EXCLUDED.synced_at
		RETURNING (xmax = 0)`

// Upsert inserta el gasto o actualiza el existente con el mismo external_id
// del tenant, en una sola sentencia atómica. xmax = 0 solo es cierto en la
// versión recién insertada de la fila, lo que distingue creado de actualizado.
func (r *ExpenseRepo) Upsert(ctx context.Context, e *entity.Expense) (bool, error) {
	var created bool
	err := r.pool.QueryRow(ctx, upsertExpenseQuery,
		e.ID, e.CompanyID, e.ExternalID, nullIfEmpty(e.UserID), e.UserName, e.UserEmail,
		e.Name, e.Description, e.Amount, e.Date, e.Vendor, e.Category, e.Status,
		e.ReceiptURL, e.InvoiceURL, e.InvoiceUUID, e.Folio, e.VendorRFC, e.Notes,
		e.CreatedAt, e.UpdatedAt, e.SyncedAt,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert expense: %w", err)
	}
	return created, nil
}

// FindByExternalID busca un gasto por su llave de reconciliación.
func (r *ExpenseRepo) FindByExternalID(ctx context.Context, companyID, externalID string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE company_id = $1 AND external_id = $2`
	e, err := r.scanOne(ctx, query, companyID, externalID)
	if err != nil {
		return nil, fmt.Errorf("get expense by external id: %w", err)
	}
	return e, nil
}

// GetByID obtiene un gasto acotado al tenant.
func (r *ExpenseRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE company_id = $1 AND id = $2`
	e, err := r.scanOne(ctx, query, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// Update sobreescribe los campos editables fuera del pipeline de sync
// (comprobantes, factura, estado).
func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	query := `
		UPDATE expenses
		   SET status = $3, receipt_url = $4, invoice_url = $5, invoice_uuid = $6,
		       folio = $7, vendor_rfc = $8, notes = $9, updated_at = $10
		 WHERE company_id = $1 AND id = $2`
	_, err := r.pool.Exec(ctx, query,
		e.CompanyID, e.ID, e.Status, e.ReceiptURL, e.InvoiceURL, e.InvoiceUUID,
		e.Folio, e.VendorRFC, e.Notes, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// List devuelve una página de gastos del tenant con filtros y orden.
func (r *ExpenseRepo) List(ctx context.Context, companyID string, f repository.ExpenseFilter, s repository.ExpenseSort, limit, offset int) ([]*entity.Expense, error) {
	where, args := buildFilter(companyID, f)

	orderCol, ok := sortColumns[s.SortBy]
	if !ok {
		orderCol = "date"
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM expenses WHERE %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		expenseColumns, where, orderCol, direction, len(args)-1, len(args),
	)
	return r.queryMany(ctx, query, args)
}

// ListAll devuelve el conjunto completo filtrado del tenant, para el
// agregador de resúmenes y el reporte PDF.
func (r *ExpenseRepo) ListAll(ctx context.Context, companyID string, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	where, args := buildFilter(companyID, f)
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE %s ORDER BY date ASC, id ASC`, expenseColumns, where)
	return r.queryMany(ctx, query, args)
}

// buildFilter arma el WHERE con placeholders posicionales. Los valores de
// filtro siempre viajan como argumentos, nunca interpolados.
func buildFilter(companyID string, f repository.ExpenseFilter) (string, []any) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.DateFrom != nil {
		add("date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("date <= $%d", *f.DateTo)
	}
	return strings.Join(conds, " AND "), args
}

func (r *ExpenseRepo) queryMany(ctx context.Context, query string, args []any) ([]*entity.Expense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *ExpenseRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Expense, error) {
	e, err := scanExpense(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func scanExpense(row rowScanner) (*entity.Expense, error) {
	var e entity.Expense
	var userID *string
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.ExternalID, &userID, &e.UserName, &e.UserEmail,
		&e.Name, &e.Description, &e.Amount, &e.Date, &e.Vendor, &e.Category, &e.Status,
		&e.ReceiptURL, &e.InvoiceURL, &e.InvoiceUUID, &e.Folio, &e.VendorRFC, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt, &e.SyncedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		e.UserID = *userID
	}
	return &e, nil
}
