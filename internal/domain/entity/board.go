package entity

import "time"

// Tipos de columna reportados por el tablero externo que el resolver entiende.
const (
	BoardColumnNumbers = "numbers"
	BoardColumnDate    = "date"
	BoardColumnStatus  = "status"
	BoardColumnText    = "text"
	BoardColumnEmail   = "email"
	BoardColumnLink    = "link"
	BoardColumnFile    = "file"
)

// BoardColumn metadato de una columna del tablero externo.
type BoardColumn struct {
	ID    string
	Title string
	Type  string
}

// BoardItem un renglón crudo del tablero externo. ColumnValues va indexado por
// id de columna con el texto plano que reporta el tablero.
type BoardItem struct {
	ID           string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ColumnValues map[string]string
}

// BoardPage una página del tablero. NextCursor vacío indica la última página.
type BoardPage struct {
	Items      []BoardItem
	NextCursor string
}
