package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

const companyColumns = `id, name, domain, rfc, board_id, drive_folder_id, plan, status,
	last_sync_at, last_sync_items, last_sync_ok, created_at, updated_at`

// Create persiste una nueva empresa. El dominio corporativo es único entre
// tenants; un duplicado devuelve ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, nullIfEmpty(company.Domain), company.RFC,
		company.BoardID, company.DriveFolderID, company.Plan, company.Status,
		company.LastSyncAt, company.LastSyncItems, company.LastSyncOK,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := r.scanOne(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByDomain busca la empresa que reclamó un dominio de correo corporativo.
// Devuelve nil, nil si nadie lo reclama.
func (r *CompanyRepo) GetByDomain(ctx context.Context, emailDomain string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE domain = $1`
	c, err := r.scanOne(ctx, query, emailDomain)
	if err != nil {
		return nil, fmt.Errorf("get company by domain: %w", err)
	}
	return c, nil
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		   SET name = $2, domain = $3, rfc = $4, board_id = $5, drive_folder_id = $6,
		       plan = $7, status = $8, updated_at = $9
		 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, nullIfEmpty(company.Domain), company.RFC,
		company.BoardID, company.DriveFolderID, company.Plan, company.Status,
		company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// UpdateSyncMetadata deja en la empresa la huella de la última corrida de
// sincronización, exitosa o no.
func (r *CompanyRepo) UpdateSyncMetadata(ctx context.Context, companyID string, meta entity.SyncMetadata) error {
	query := `
		UPDATE companies
		   SET last_sync_at = $2, last_sync_items = $3, last_sync_ok = $4, updated_at = $2
		 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, companyID, meta.Timestamp, meta.ItemsSynced, meta.Success)
	if err != nil {
		return fmt.Errorf("update sync metadata: %w", err)
	}
	return nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CompanyRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Company, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	c, err := scanCompany(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	var companyDomain *string
	err := row.Scan(
		&c.ID, &c.Name, &companyDomain, &c.RFC, &c.BoardID, &c.DriveFolderID,
		&c.Plan, &c.Status, &c.LastSyncAt, &c.LastSyncItems, &c.LastSyncOK,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if companyDomain != nil {
		c.Domain = *companyDomain
	}
	return &c, nil
}

// nullIfEmpty deja NULL en columnas únicas opcionales: un UNIQUE sobre
// domain no debe chocar entre empresas sin dominio corporativo.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
