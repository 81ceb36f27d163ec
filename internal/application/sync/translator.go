package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturamx/gastos-api/internal/domain/entity"
	domexpense "github.com/facturamx/gastos-api/internal/domain/expense"
)

// UserDirectory resuelve correos del tablero a usuarios conocidos del tenant.
// Llave: correo en minúsculas.
type UserDirectory map[string]*entity.User

// NewUserDirectory indexa los usuarios de un tenant por correo.
func NewUserDirectory(users []*entity.User) UserDirectory {
	dir := make(UserDirectory, len(users))
	for _, u := range users {
		dir[strings.ToLower(u.Email)] = u
	}
	return dir
}

// Translation un gasto canónico más los avisos suaves que no impiden crearlo.
type Translation struct {
	Expense  *entity.Expense
	Warnings []string
}

// layouts de fecha aceptados del tablero, del más al menos específico.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// TranslateItem convierte un item crudo del tablero en un Expense canónico.
// Transformación pura: toda la persistencia ocurre después, en el motor de
// reconciliación.
//
// Errores duros (impiden crear el gasto): monto ausente, ilegible o negativo;
// fecha ausente o ilegible. Avisos suaves: proveedor vacío, correo de usuario
// que no corresponde a ningún usuario registrado del tenant (las entradas
// históricas del tablero pueden anteceder al registro del empleado).
func TranslateItem(item entity.BoardItem, mapping entity.ColumnMapping, tenant entity.TenantContext, users UserDirectory, now time.Time) (*Translation, error) {
	amount, err := parseAmount(item.ColumnValues[mapping.Amount])
	if err != nil {
		return nil, err
	}
	date, err := parseDate(item.ColumnValues[mapping.Date])
	if err != nil {
		return nil, err
	}

	e := &entity.Expense{
		ID:         uuid.New().String(),
		CompanyID:  tenant.CompanyID,
		ExternalID: item.ID,
		Name:       item.Name,
		Amount:     amount,
		Date:       date,
		Vendor:     strings.TrimSpace(item.ColumnValues[mapping.Vendor]),
		Status:     domexpense.NormalizeStatus(item.ColumnValues[mapping.Status]),
		Category:   domexpense.NormalizeCategory(columnValue(item, mapping.Category)),
		Notes:      columnValue(item, mapping.Notes),
		InvoiceURL: columnValue(item, mapping.InvoiceLink),
		ReceiptURL: columnValue(item, mapping.ReceiptLink),
		VendorRFC:  columnValue(item, mapping.TaxID),
		Folio:      columnValue(item, mapping.Folio),
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncedAt:   now,
	}

	var warnings []string
	if e.Vendor == "" {
		// No bloquea la sincronización, pero la facturación posterior puede exigirlo.
		warnings = append(warnings, "proveedor vacío")
	}

	if mapping.UserEmail != "" {
		if email := strings.TrimSpace(item.ColumnValues[mapping.UserEmail]); email != "" {
			e.UserEmail = email
			if u, ok := users[strings.ToLower(email)]; ok {
				e.UserID = u.ID
				e.UserName = u.Name
			} else {
				warnings = append(warnings, fmt.Sprintf("usuario no registrado: %s", email))
			}
		}
	}

	return &Translation{Expense: e, Warnings: warnings}, nil
}

// isEmptyRow detecta filas de relleno del tablero: sin nombre y sin valores
// en monto ni fecha. Los operadores las dejan al insertar filas por error y
// no ameritan un error de traducción.
func isEmptyRow(item entity.BoardItem, mapping entity.ColumnMapping) bool {
	return strings.TrimSpace(item.Name) == "" &&
		strings.TrimSpace(item.ColumnValues[mapping.Amount]) == "" &&
		strings.TrimSpace(item.ColumnValues[mapping.Date]) == ""
}

func columnValue(item entity.BoardItem, columnID string) string {
	if columnID == "" {
		return ""
	}
	return strings.TrimSpace(item.ColumnValues[columnID])
}

// parseAmount admite los formatos que los operadores escriben a mano:
// "$1,500.00", "1500", "150.50 MXN". Cero es válido (entrada informativa);
// negativo no.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("monto requerido ausente")
	}
	s = strings.ToUpper(s)
	s = strings.TrimSuffix(s, "MXN")
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto ilegible: %q", raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo: %s", amount)
	}
	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha requerida ausente")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha ilegible: %q", raw)
}
