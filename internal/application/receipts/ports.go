package receipts

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStorage puerto hacia el almacenamiento de archivos (Google Drive).
type ReceiptStorage interface {
	// EnsureFolder devuelve el ID de la carpeta con ese nombre bajo el
	// folder raíz, creándola si no existe.
	EnsureFolder(ctx context.Context, name string) (string, error)
	// Upload sube el archivo a la carpeta y devuelve su enlace público.
	Upload(ctx context.Context, folderID, filename, mimeType string, content io.Reader) (url string, err error)
}

// ParsedInvoice datos fiscales extraídos de un CFDI timbrado.
type ParsedInvoice struct {
	UUID          string
	Folio         string
	RFCEmisor     string
	NombreEmisor  string
	RFCReceptor   string
	Total         decimal.Decimal
	FechaTimbrado time.Time
}

// InvoiceParser puerto hacia el parser de CFDI (XML del SAT).
type InvoiceParser interface {
	Parse(xmlContent []byte) (*ParsedInvoice, error)
}

// DisabledStorage implementación nula para despliegues sin Drive
// configurado: el resto de la API funciona y los adjuntos fallan con un
// mensaje accionable.
type DisabledStorage struct{}

func (DisabledStorage) EnsureFolder(context.Context, string) (string, error) {
	return "", errors.New("almacenamiento de comprobantes sin configurar")
}

func (DisabledStorage) Upload(context.Context, string, string, string, io.Reader) (string, error) {
	return "", errors.New("almacenamiento de comprobantes sin configurar")
}
