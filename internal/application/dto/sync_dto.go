package dto

import "github.com/facturamx/gastos-api/internal/domain/entity"

// SyncRequest entrada de una sincronización manual. BoardID vacío usa el
// tablero configurado en la empresa; Mapping nil activa la autodetección.
type SyncRequest struct {
	BoardID string                `json:"board_id,omitempty"`
	Mapping *entity.ColumnMapping `json:"mapping,omitempty"`
}

// MappingResponse resultado de la detección de columnas (dry-run para la UI).
type MappingResponse struct {
	Mapping        entity.ColumnMapping `json:"mapping"`
	MissingColumns []string             `json:"missing_columns"`
}
