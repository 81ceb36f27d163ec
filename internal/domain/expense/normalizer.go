// Package expense contiene la lógica pura del pipeline de gastos: la
// normalización de etiquetas libres del tablero externo y la resolución
// heurística del mapeo de columnas. Sin I/O y sin estado.
package expense

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// Fold normaliza una etiqueta para comparación: minúsculas, sin acentos,
// sin espacios sobrantes. "En Revisión" -> "en revision".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		// transform solo falla con transformadores que rechazan input;
		// Remove nunca lo hace, pero el fallback mantiene la totalidad.
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}

// Diccionarios de sinónimos. Las llaves van ya pasadas por Fold: las
// etiquetas las editan operadores en el tablero y llegan con acentos y
// mayúsculas arbitrarias.
var statusSynonyms = map[string]string{
	"pendiente":    entity.StatusPendiente,
	"nuevo":        entity.StatusPendiente,
	"por revisar":  entity.StatusPendiente,
	"sin procesar": entity.StatusPendiente,

	"en proceso":  entity.StatusEnProceso,
	"procesando":  entity.StatusEnProceso,
	"en revision": entity.StatusEnProceso,

	"facturado":  entity.StatusFacturado,
	"completado": entity.StatusFacturado,
	"listo":      entity.StatusFacturado,
	"finalizado": entity.StatusFacturado,
	"emitido":    entity.StatusFacturado,

	"rechazado":    entity.StatusRechazado,
	"cancelado":    entity.StatusRechazado,
	"no procede":   entity.StatusRechazado,
	"sin facturar": entity.StatusRechazado,
}

var categorySynonyms = map[string]string{
	"alimentacion": entity.CategoriaAlimentacion,
	"alimentos":    entity.CategoriaAlimentacion,
	"comida":       entity.CategoriaAlimentacion,
	"restaurante":  entity.CategoriaAlimentacion,
	"cafe":         entity.CategoriaAlimentacion,
	"desayuno":     entity.CategoriaAlimentacion,

	"transporte":      entity.CategoriaTransporte,
	"uber":            entity.CategoriaTransporte,
	"taxi":            entity.CategoriaTransporte,
	"gasolina":        entity.CategoriaTransporte,
	"peaje":           entity.CategoriaTransporte,
	"casetas":         entity.CategoriaTransporte,
	"estacionamiento": entity.CategoriaTransporte,
	"vuelo":           entity.CategoriaTransporte,

	"hospedaje":   entity.CategoriaHospedaje,
	"hotel":       entity.CategoriaHospedaje,
	"airbnb":      entity.CategoriaHospedaje,
	"alojamiento": entity.CategoriaHospedaje,

	"servicios":   entity.CategoriaServicios,
	"luz":         entity.CategoriaServicios,
	"agua":        entity.CategoriaServicios,
	"internet":    entity.CategoriaServicios,
	"telefono":    entity.CategoriaServicios,
	"software":    entity.CategoriaServicios,
	"suscripcion": entity.CategoriaServicios,

	"materiales": entity.CategoriaMateriales,
	"material":   entity.CategoriaMateriales,
	"papeleria":  entity.CategoriaMateriales,
	"oficina":    entity.CategoriaMateriales,
	"insumos":    entity.CategoriaMateriales,

	"otros":  entity.CategoriaOtros,
	"otro":   entity.CategoriaOtros,
	"varios": entity.CategoriaOtros,
}

// NormalizeStatus traduce una etiqueta libre de estado al enum canónico.
// Función total: entrada no reconocida cae a "pendiente" en lugar de fallar,
// porque una etiqueta editada a mano jamás debe bloquear una sincronización.
func NormalizeStatus(label string) string {
	if canonical, ok := statusSynonyms[Fold(label)]; ok {
		return canonical
	}
	return entity.StatusPendiente
}

// NormalizeCategory traduce una etiqueta libre de categoría al enum canónico.
// Entrada no reconocida cae a "otros".
func NormalizeCategory(label string) string {
	if canonical, ok := categorySynonyms[Fold(label)]; ok {
		return canonical
	}
	return entity.CategoriaOtros
}
