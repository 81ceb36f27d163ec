// Package cfdi parsea comprobantes fiscales digitales (CFDI 4.0) del SAT
// para extraer los datos fiscales que el gasto necesita.
package cfdi

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/facturamx/gastos-api/internal/application/receipts"
)

var _ receipts.InvoiceParser = (*Parser)(nil)

// Parser lector de CFDI timbrados. Tolera los prefijos de namespace
// habituales (cfdi:, tfd:) y también XML sin prefijo.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extrae UUID del timbre, emisor, receptor, total y folio del XML.
// El documento debe ser un cfdi:Comprobante; el timbre es opcional aquí,
// la validación de negocio decide si lo exige.
func (p *Parser) Parse(xmlContent []byte) (*receipts.ParsedInvoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlContent); err != nil {
		return nil, fmt.Errorf("cfdi: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("cfdi: documento sin raíz")
	}
	// etree separa el prefijo de namespace en Space; Tag llega limpio.
	if root.Tag != "Comprobante" {
		return nil, fmt.Errorf("cfdi: la raíz es %s, se esperaba Comprobante", root.Tag)
	}

	total, err := decimal.NewFromString(attr(root, "Total"))
	if err != nil {
		return nil, fmt.Errorf("cfdi: Total ilegible: %w", err)
	}

	invoice := &receipts.ParsedInvoice{
		Folio: attr(root, "Folio"),
		Total: total,
	}

	if emisor := childByLocalTag(root, "Emisor"); emisor != nil {
		invoice.RFCEmisor = attr(emisor, "Rfc")
		invoice.NombreEmisor = attr(emisor, "Nombre")
	}
	if receptor := childByLocalTag(root, "Receptor"); receptor != nil {
		invoice.RFCReceptor = attr(receptor, "Rfc")
	}

	// El timbre vive en Complemento -> TimbreFiscalDigital.
	if complemento := childByLocalTag(root, "Complemento"); complemento != nil {
		if timbre := childByLocalTag(complemento, "TimbreFiscalDigital"); timbre != nil {
			invoice.UUID = strings.ToUpper(attr(timbre, "UUID"))
			if fecha := attr(timbre, "FechaTimbrado"); fecha != "" {
				// El SAT timbra en hora local sin zona.
				if t, err := time.Parse("2006-01-02T15:04:05", fecha); err == nil {
					invoice.FechaTimbrado = t
				}
			}
		}
	}

	if invoice.RFCEmisor == "" {
		return nil, fmt.Errorf("cfdi: falta el RFC del emisor")
	}
	return invoice, nil
}

func childByLocalTag(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func attr(e *etree.Element, key string) string {
	return e.SelectAttrValue(key, "")
}
