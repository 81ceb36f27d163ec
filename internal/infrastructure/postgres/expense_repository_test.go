package postgres

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// La rama DO UPDATE define la política de reconciliación: el tablero manda
// sobre los campos mapeados y un CFDI timbrado localmente no se regresa.
// Estas pruebas fijan esa política a nivel de sentencia.
// ──────────────────────────────────────────────────────────────────────────────

func conflictClause(t *testing.T) string {
	t.Helper()
	_, clause, ok := strings.Cut(upsertExpenseQuery, "DO UPDATE SET")
	require.True(t, ok, "el upsert debe llevar rama DO UPDATE")
	return clause
}

func TestUpsertQuery_ElTableroSobreescribeLosCamposMapeados(t *testing.T) {
	clause := conflictClause(t)

	// Todo campo que el traductor llena desde una columna del tablero debe
	// propagarse también en una resincronización, no solo al crear.
	sobrescritos := []string{
		"user_id", "user_name", "user_email", "name", "description",
		"amount", "date", "vendor", "category", "notes", "status",
		"invoice_url", "folio", "vendor_rfc", "receipt_url",
		"updated_at", "synced_at",
	}
	for _, col := range sobrescritos {
		re := regexp.MustCompile(`(?m)^\s+` + col + `\s+=`)
		assert.True(t, re.MatchString(clause), "columna %q ausente de la rama DO UPDATE", col)
	}
}

func TestUpsertQuery_CFDITimbradoNoSeRegresa(t *testing.T) {
	clause := conflictClause(t)

	// El tablero nunca escribe invoice_uuid; solo el adjunto local de CFDI.
	assert.NotContains(t, clause, "invoice_uuid =", "invoice_uuid no debe sobreescribirse en resync")

	// El bloque de factura queda protegido mientras haya CFDI local.
	protegidos := []string{"status", "invoice_url", "folio", "vendor_rfc"}
	for _, col := range protegidos {
		assert.Contains(t, clause,
			"THEN expenses."+col+" ELSE EXCLUDED."+col,
			"columna %q debe protegerse cuando hay CFDI timbrado", col)
	}
}

func TestUpsertQuery_ReciboLocalSobreviveCeldaVacia(t *testing.T) {
	clause := conflictClause(t)
	assert.Contains(t, clause, "CASE WHEN EXCLUDED.receipt_url <> ''",
		"una celda de recibo vacía no debe borrar el comprobante local")
}
