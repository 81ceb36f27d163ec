package rfc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturamx/gastos-api/pkg/rfc"
)

// Vectores calculados con la tabla del Anexo 20. GODE561231GR8 es el ejemplo
// clásico del SAT para persona física.
func TestValidate_RFCsValidos(t *testing.T) {
	casos := []string{
		"GODE561231GR8", // persona física
		"AAA010101AA1",  // persona moral
		"FMG240115AB3",  // persona moral
		"XAXX010101000", // genérico público en general
		"XEXX010101000", // genérico extranjero
		"gode561231gr8", // minúsculas se normalizan
		"GODE-561231-GR8",
	}
	for _, c := range casos {
		assert.NoError(t, rfc.Validate(c), "RFC %q debe ser válido", c)
	}
}

// La Ñ ocupa dos bytes en UTF-8; el dígito verificador se pondera por
// posición de carácter, no de byte.
func TestValidate_RFCConEnie(t *testing.T) {
	assert.NoError(t, rfc.Validate("ÑAAA010101AAA"), "persona física con Ñ inicial")
	assert.NoError(t, rfc.Validate("ÑAA010101AA6"), "persona moral con Ñ inicial")

	err := rfc.Validate("ÑAAA010101AA8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dígito verificador")
}

func TestValidate_DigitoVerificadorIncorrecto(t *testing.T) {
	err := rfc.Validate("GODE561231GR7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dígito verificador")
}

func TestValidate_EstructuraInvalida(t *testing.T) {
	casos := []string{
		"",
		"ABC",
		"12345678901234",
		"G0DE561231GR8", // dígito en el segmento de letras
		"GODE561331GR8", // mes 13 no existe
	}
	for _, c := range casos {
		assert.Error(t, rfc.Validate(c), "RFC %q debe ser rechazado", c)
	}
}

func TestValidate_FechaInvalida(t *testing.T) {
	// AAMMDD con día 32
	err := rfc.Validate("AAA010132AA1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "día inválido")
}

func TestIsMoral(t *testing.T) {
	assert.True(t, rfc.IsMoral("AAA010101AA1"), "12 posiciones = persona moral")
	assert.False(t, rfc.IsMoral("GODE561231GR8"), "13 posiciones = persona física")
}
