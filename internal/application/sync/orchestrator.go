package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	domexpense "github.com/facturamx/gastos-api/internal/domain/expense"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/pkg/logger"
)

// defaultUpsertConcurrency lote concurrente de upserts contra el storage.
// Acotado para no agotar el presupuesto de conexiones del backend.
const defaultUpsertConcurrency = 3

// Orchestrator dirige una corrida completa de sincronización: paginación
// secuencial del tablero, traducción por item, upserts en lotes acotados y
// el SyncResult final. Los fallos de items se acumulan sin abortar la
// corrida; los fallos del upstream sí la abortan.
type Orchestrator struct {
	source      BoardSource
	expenses    repository.ExpenseRepository
	users       repository.UserRepository
	companies   repository.CompanyRepository
	log         *logger.Logger
	concurrency int
}

// NewOrchestrator construye el orquestador. concurrency <= 0 usa el default (3).
func NewOrchestrator(
	source BoardSource,
	expenses repository.ExpenseRepository,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	log *logger.Logger,
	concurrency int,
) *Orchestrator {
	if concurrency <= 0 {
		concurrency = defaultUpsertConcurrency
	}
	return &Orchestrator{
		source:      source,
		expenses:    expenses,
		users:       users,
		companies:   companies,
		log:         log,
		concurrency: concurrency,
	}
}

// DetectMapping corre la detección de columnas sin sincronizar (dry-run para
// que la UI muestre qué se detectó y qué falta).
func (o *Orchestrator) DetectMapping(ctx context.Context, tenant entity.TenantContext, boardID string) (*dto.MappingResponse, error) {
	boardID, err := o.resolveBoardID(ctx, tenant, boardID)
	if err != nil {
		return nil, err
	}
	columns, err := o.source.ListColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("columnas del tablero %s: %w", boardID, err)
	}
	res := domexpense.ResolveColumns(columns)
	return &dto.MappingResponse{Mapping: res.Mapping, MissingColumns: res.Missing}, nil
}

// Synchronize ejecuta la corrida completa para el tenant. Devuelve un
// SyncResult completo (posiblemente con errores por item) o un único error
// fatal; nunca un éxito silenciosamente incompleto.
//
// explicit nil activa la autodetección de columnas; si ni así se resuelven
// los campos requeridos, la corrida aborta con un error de configuración que
// enumera los faltantes, sin tocar datos.
func (o *Orchestrator) Synchronize(ctx context.Context, tenant entity.TenantContext, boardID string, explicit *entity.ColumnMapping) (*entity.SyncResult, error) {
	boardID, err := o.resolveBoardID(ctx, tenant, boardID)
	if err != nil {
		return nil, err
	}

	mapping, err := o.resolveMapping(ctx, boardID, explicit)
	if err != nil {
		return nil, err
	}

	tenantUsers, err := o.users.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("usuarios del tenant: %w", err)
	}
	directory := NewUserDirectory(tenantUsers)

	start := time.Now()
	result := &entity.SyncResult{}

	// Paginación secuencial: el cursor del tablero tiene estado y no es
	// paralelizable con seguridad.
	cursor := ""
	for {
		page, err := o.source.ListItems(ctx, boardID, cursor)
		if err != nil {
			o.recordRunMetadata(ctx, tenant.CompanyID, result, false)
			return nil, fmt.Errorf("%w: página del tablero %s: %v", domain.ErrUpstreamFailure, boardID, err)
		}

		batch := make([]*Translation, 0, len(page.Items))
		for _, item := range page.Items {
			result.ItemsProcessed++
			if isEmptyRow(item, mapping) {
				result.ItemsSkipped++
				continue
			}
			tr, err := TranslateItem(item, mapping, tenant, directory, time.Now())
			if err != nil {
				result.Errors = append(result.Errors, entity.SyncItemIssue{
					ItemID: item.ID, ItemName: item.Name, Reason: err.Error(),
				})
				continue
			}
			for _, w := range tr.Warnings {
				result.Warnings = append(result.Warnings, entity.SyncItemIssue{
					ItemID: item.ID, ItemName: item.Name, Reason: w,
				})
			}
			batch = append(batch, tr)
		}

		o.upsertBatch(ctx, batch, result)

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	result.CompletedAt = time.Now()
	o.recordRunMetadata(ctx, tenant.CompanyID, result, true)

	o.log.Info().
		Str("company_id", tenant.CompanyID).
		Str("board_id", boardID).
		Int("processed", result.ItemsProcessed).
		Int("created", result.ItemsCreated).
		Int("updated", result.ItemsUpdated).
		Int("skipped", result.ItemsSkipped).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("sincronización completada")

	return result, nil
}

func (o *Orchestrator) resolveBoardID(ctx context.Context, tenant entity.TenantContext, boardID string) (string, error) {
	if boardID != "" {
		return boardID, nil
	}
	company, err := o.companies.GetByID(ctx, tenant.CompanyID)
	if err != nil {
		return "", fmt.Errorf("empresa %s: %w", tenant.CompanyID, err)
	}
	if company == nil {
		return "", domain.ErrNotFound
	}
	if company.BoardID == "" {
		return "", domain.ErrBoardNotConfigured
	}
	return company.BoardID, nil
}

// resolveMapping valida el mapeo explícito o autodetecta uno a partir del
// esquema del tablero. Un mapeo sin los campos requeridos es un error de
// configuración: se aborta antes de realizar trabajo parcial.
func (o *Orchestrator) resolveMapping(ctx context.Context, boardID string, explicit *entity.ColumnMapping) (entity.ColumnMapping, error) {
	if explicit != nil {
		if missing := explicit.Missing(); len(missing) > 0 {
			return entity.ColumnMapping{}, fmt.Errorf("%w: faltan %s", domain.ErrMappingIncomplete, strings.Join(missing, ", "))
		}
		return *explicit, nil
	}
	columns, err := o.source.ListColumns(ctx, boardID)
	if err != nil {
		return entity.ColumnMapping{}, fmt.Errorf("%w: columnas del tablero %s: %v", domain.ErrUpstreamFailure, boardID, err)
	}
	res := domexpense.ResolveColumns(columns)
	if len(res.Missing) > 0 {
		return entity.ColumnMapping{}, fmt.Errorf("%w: no se detectaron columnas para %s", domain.ErrMappingIncomplete, strings.Join(res.Missing, ", "))
	}
	return res.Mapping, nil
}

// upsertBatch reconcilia las traducciones exitosas de una página en lotes
// concurrentes acotados. El upsert de cada item es atómico; un fallo de
// storage en un item se reporta como error de ese item, no aborta la corrida.
func (o *Orchestrator) upsertBatch(ctx context.Context, batch []*Translation, result *entity.SyncResult) {
	type upsertOutcome struct {
		tr      *Translation
		created bool
		err     error
	}

	for from := 0; from < len(batch); from += o.concurrency {
		to := from + o.concurrency
		if to > len(batch) {
			to = len(batch)
		}
		chunk := batch[from:to]

		outcomes := make(chan upsertOutcome, len(chunk))
		for _, tr := range chunk {
			go func(tr *Translation) {
				created, err := o.expenses.Upsert(ctx, tr.Expense)
				outcomes <- upsertOutcome{tr: tr, created: created, err: err}
			}(tr)
		}

		for range chunk {
			out := <-outcomes
			if out.err != nil {
				result.Errors = append(result.Errors, entity.SyncItemIssue{
					ItemID:   out.tr.Expense.ExternalID,
					ItemName: out.tr.Expense.Name,
					Reason:   fmt.Sprintf("guardar gasto: %v", out.err),
				})
				continue
			}
			if out.created {
				result.ItemsCreated++
			} else {
				result.ItemsUpdated++
			}
		}
	}
}

// recordRunMetadata deja en la empresa los metadatos de la última corrida.
// Un fallo aquí solo se loguea: el resultado de la corrida ya está decidido.
func (o *Orchestrator) recordRunMetadata(ctx context.Context, companyID string, result *entity.SyncResult, success bool) {
	meta := entity.SyncMetadata{
		ItemsSynced: result.ItemsCreated + result.ItemsUpdated,
		Success:     success,
		Timestamp:   time.Now(),
	}
	if err := o.companies.UpdateSyncMetadata(ctx, companyID, meta); err != nil {
		o.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudieron guardar los metadatos de sincronización")
	}
}
