// Package sync implementa el pipeline de sincronización y reconciliación de
// gastos: pagina el tablero externo, traduce cada item al esquema canónico y
// reconcilia contra el almacenamiento del tenant.
package sync

import (
	"context"

	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// BoardSource puerto hacia el tablero externo (Monday.com en producción).
// El pipeline lo trata como única fuente de verdad del contenido de los items.
type BoardSource interface {
	ListColumns(ctx context.Context, boardID string) ([]entity.BoardColumn, error)
	// ListItems devuelve una página de items. cursor vacío pide la primera
	// página; BoardPage.NextCursor vacío indica que no hay más.
	ListItems(ctx context.Context, boardID, cursor string) (*entity.BoardPage, error)
}
