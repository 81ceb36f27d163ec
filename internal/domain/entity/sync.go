package entity

import "time"

// SyncItemIssue problema reportado por un item individual durante una corrida.
type SyncItemIssue struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Reason   string `json:"reason"`
}

// SyncResult resumen transitorio de una corrida de sincronización. No se
// persiste como entidad; se devuelve al caller y deja huella parcial en
// Company como metadatos de última sincronización.
//
// Errors son fallos duros de traducción (monto ilegible, fecha inválida);
// Warnings son avisos suaves (proveedor vacío, usuario sin resolver) que no
// impiden crear el gasto.
type SyncResult struct {
	ItemsProcessed int             `json:"items_processed"`
	ItemsCreated   int             `json:"items_created"`
	ItemsUpdated   int             `json:"items_updated"`
	ItemsSkipped   int             `json:"items_skipped"`
	Errors         []SyncItemIssue `json:"errors"`
	Warnings       []SyncItemIssue `json:"warnings"`
	CompletedAt    time.Time       `json:"completed_at"`
}
