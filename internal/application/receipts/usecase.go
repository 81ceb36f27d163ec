package receipts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/pkg/logger"
	"github.com/facturamx/gastos-api/pkg/rfc"
)

// UseCase adjunta comprobantes y facturas CFDI a los gastos del tenant.
type UseCase struct {
	expenseRepo repository.ExpenseRepository
	companyRepo repository.CompanyRepository
	storage     ReceiptStorage
	parser      InvoiceParser
	log         *logger.Logger
}

func NewUseCase(expenseRepo repository.ExpenseRepository, companyRepo repository.CompanyRepository, storage ReceiptStorage, parser InvoiceParser, log *logger.Logger) *UseCase {
	return &UseCase{
		expenseRepo: expenseRepo,
		companyRepo: companyRepo,
		storage:     storage,
		parser:      parser,
		log:         log,
	}
}

// AttachReceipt sube el comprobante (foto o PDF del ticket) a la carpeta de
// la empresa y lo liga al gasto. Un usuario común solo puede adjuntar a sus
// propios gastos.
func (uc *UseCase) AttachReceipt(ctx context.Context, tenant entity.TenantContext, expenseID, filename, mimeType string, content io.Reader) (*dto.ExpenseResponse, error) {
	expense, company, err := uc.loadOwned(ctx, tenant, expenseID)
	if err != nil {
		return nil, err
	}

	folderID, err := uc.ensureCompanyFolder(ctx, company)
	if err != nil {
		return nil, err
	}

	url, err := uc.storage.Upload(ctx, folderID, filename, mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("subiendo comprobante: %w", err)
	}

	expense.ReceiptURL = url
	expense.UpdatedAt = time.Now().UTC()
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", tenant.CompanyID).
		Str("expense_id", expense.ID).
		Msg("comprobante adjuntado")

	return toExpenseResponse(expense), nil
}

// AttachInvoice recibe el XML de un CFDI timbrado, valida que corresponda al
// gasto (total y RFC receptor) y lo deja archivado. El gasto pasa a estado
// facturado.
func (uc *UseCase) AttachInvoice(ctx context.Context, tenant entity.TenantContext, expenseID string, xmlContent []byte) (*dto.ExpenseResponse, error) {
	expense, company, err := uc.loadOwned(ctx, tenant, expenseID)
	if err != nil {
		return nil, err
	}

	invoice, err := uc.parser.Parse(xmlContent)
	if err != nil {
		return nil, fmt.Errorf("%w: CFDI ilegible: %v", domain.ErrInvalidInput, err)
	}
	if invoice.UUID == "" {
		return nil, fmt.Errorf("%w: el CFDI no trae timbre fiscal", domain.ErrInvalidInput)
	}
	if !invoice.Total.Equal(expense.Amount) {
		return nil, fmt.Errorf("%w: el total del CFDI (%s) no coincide con el gasto (%s)",
			domain.ErrInvalidInput, invoice.Total, expense.Amount)
	}
	if company.RFC != "" && rfc.Normalize(invoice.RFCReceptor) != company.RFC {
		return nil, fmt.Errorf("%w: el CFDI está emitido a %s, no al RFC de la empresa",
			domain.ErrInvalidInput, invoice.RFCReceptor)
	}

	folderID, err := uc.ensureCompanyFolder(ctx, company)
	if err != nil {
		return nil, err
	}
	filename := fmt.Sprintf("cfdi-%s.xml", invoice.UUID)
	url, err := uc.storage.Upload(ctx, folderID, filename, "text/xml", bytes.NewReader(xmlContent))
	if err != nil {
		return nil, fmt.Errorf("archivando CFDI: %w", err)
	}

	expense.InvoiceURL = url
	expense.InvoiceUUID = invoice.UUID
	if invoice.Folio != "" {
		expense.Folio = invoice.Folio
	}
	if expense.VendorRFC == "" {
		expense.VendorRFC = rfc.Normalize(invoice.RFCEmisor)
	}
	expense.Status = entity.StatusFacturado
	expense.UpdatedAt = time.Now().UTC()
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", tenant.CompanyID).
		Str("expense_id", expense.ID).
		Str("uuid", invoice.UUID).
		Msg("factura CFDI adjuntada")

	return toExpenseResponse(expense), nil
}

// loadOwned trae el gasto acotado al tenant y aplica la regla de propiedad:
// los usuarios comunes solo tocan sus propios gastos.
func (uc *UseCase) loadOwned(ctx context.Context, tenant entity.TenantContext, expenseID string) (*entity.Expense, *entity.Company, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, tenant.CompanyID, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if expense == nil {
		return nil, nil, domain.ErrNotFound
	}
	if !tenant.IsAdmin() && expense.UserID != tenant.UserID {
		return nil, nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(ctx, tenant.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	return expense, company, nil
}

// ensureCompanyFolder resuelve la carpeta de Drive de la empresa, creándola
// y cacheando su ID en la primera subida.
func (uc *UseCase) ensureCompanyFolder(ctx context.Context, company *entity.Company) (string, error) {
	if company.DriveFolderID != "" {
		return company.DriveFolderID, nil
	}
	folderID, err := uc.storage.EnsureFolder(ctx, company.Name)
	if err != nil {
		return "", fmt.Errorf("creando carpeta de la empresa: %w", err)
	}
	company.DriveFolderID = folderID
	company.UpdatedAt = time.Now().UTC()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return "", err
	}
	return folderID, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
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
