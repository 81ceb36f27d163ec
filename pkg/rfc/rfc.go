// Package rfc valida el RFC mexicano (Registro Federal de Contribuyentes)
// conforme al Anexo 20 del SAT: estructura, fecha embebida y dígito verificador.
package rfc

import (
	"fmt"
	"regexp"
	"strings"
)

// Estructura: 3 letras (persona moral) o 4 (persona física) + fecha AAMMDD + homoclave.
var rfcPattern = regexp.MustCompile(`^([A-ZÑ&]{3,4})(\d{2})(\d{2})(\d{2})([A-Z0-9]{2})([0-9A])$`)

// RFCs genéricos del SAT (público en general / residentes en el extranjero).
// No cumplen el dígito verificador y aun así son válidos para facturar.
var genericRFCs = map[string]bool{
	"XAXX010101000": true,
	"XEXX010101000": true,
}

// tabla de valores del Anexo 20 para el cálculo del dígito verificador.
var charValues = map[rune]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 10, 'B': 11, 'C': 12, 'D': 13, 'E': 14, 'F': 15, 'G': 16, 'H': 17,
	'I': 18, 'J': 19, 'K': 20, 'L': 21, 'M': 22, 'N': 23, '&': 24,
	'O': 25, 'P': 26, 'Q': 27, 'R': 28, 'S': 29, 'T': 30, 'U': 31, 'V': 32,
	'W': 33, 'X': 34, 'Y': 35, 'Z': 36, ' ': 37, 'Ñ': 38,
}

// Normalize limpia espacios y guiones y pasa a mayúsculas.
func Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Validate verifica estructura, fecha y dígito verificador del RFC.
// Acepta persona física (13 caracteres) y persona moral (12), así como
// los RFC genéricos del SAT.
func Validate(raw string) error {
	s := Normalize(raw)
	if genericRFCs[s] {
		return nil
	}
	m := rfcPattern.FindStringSubmatch(s)
	if m == nil {
		return fmt.Errorf("rfc: estructura inválida: %q", raw)
	}
	if err := validateDate(m[3], m[4]); err != nil {
		return err
	}
	expected := checkDigit(s[:len(s)-1])
	if got := s[len(s)-1]; got != expected {
		return fmt.Errorf("rfc: dígito verificador inválido: esperado %c, recibido %c", expected, got)
	}
	return nil
}

// IsMoral informa si el RFC (ya válido) corresponde a una persona moral.
func IsMoral(raw string) bool {
	return len(Normalize(raw)) == 12
}

func validateDate(mm, dd string) error {
	month := int(mm[0]-'0')*10 + int(mm[1]-'0')
	day := int(dd[0]-'0')*10 + int(dd[1]-'0')
	if month < 1 || month > 12 {
		return fmt.Errorf("rfc: mes inválido en la fecha: %s", mm)
	}
	if day < 1 || day > 31 {
		return fmt.Errorf("rfc: día inválido en la fecha: %s", dd)
	}
	return nil
}

// checkDigit calcula el dígito verificador sobre los primeros 11 o 12
// caracteres. Los RFC de 12 posiciones se rellenan con un espacio a la
// izquierda para homologar el peso de cada posición.
func checkDigit(base string) byte {
	// La Ñ ocupa dos bytes en UTF-8; el peso de cada posición se calcula
	// sobre caracteres, no sobre bytes.
	chars := []rune(base)
	if len(chars) == 11 {
		chars = append([]rune{' '}, chars...)
	}
	var sum int
	for i, r := range chars {
		sum += charValues[r] * (13 - i)
	}
	remainder := sum % 11
	if remainder == 0 {
		return '0'
	}
	d := 11 - remainder
	if d == 10 {
		return 'A'
	}
	return byte('0' + d)
}
