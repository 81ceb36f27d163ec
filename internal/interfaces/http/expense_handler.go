package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/application/receipts"
	"github.com/facturamx/gastos-api/internal/application/reporting"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/internal/infrastructure/pdf"
)

// Techo de tamaño para comprobantes y CFDI subidos.
const maxUploadBytes = 10 << 20 // 10 MiB

// ExpenseHandler listado, resumen, reporte y adjuntos de gastos.
type ExpenseHandler struct {
	listUC     *reporting.ExpenseUseCase
	receiptsUC *receipts.UseCase
	companies  repository.CompanyRepository
	reportGen  *pdf.ReportGenerator
}

// NewExpenseHandler construye el handler de gastos.
func NewExpenseHandler(listUC *reporting.ExpenseUseCase, receiptsUC *receipts.UseCase, companies repository.CompanyRepository, reportGen *pdf.ReportGenerator) *ExpenseHandler {
	return &ExpenseHandler{listUC: listUC, receiptsUC: receiptsUC, companies: companies, reportGen: reportGen}
}

// List godoc
// @Summary      Listar gastos del tenant
// @Description  Página de gastos con filtros. La primera página incluye el resumen agregado. Usuarios sin rol admin solo ven sus propios gastos.
// @Tags         expenses
// @Produce      json
// @Param        estado     query  string  false  "pendiente | en_proceso | facturado | rechazado"
// @Param        categoria  query  string  false  "alimentacion | transporte | hospedaje | servicios | materiales | otros"
// @Param        user_id    query  string  false  "solo admin"
// @Param        desde      query  string  false  "fecha mínima (YYYY-MM-DD)"
// @Param        hasta      query  string  false  "fecha máxima (YYYY-MM-DD)"
// @Param        sort_by    query  string  false  "fecha | monto | proveedor | estado"
// @Param        desc       query  bool    false  "orden descendente"
// @Param        limit      query  int     false  "tamaño de página (máx 100)"
// @Param        cursor     query  string  false  "cursor opaco de la página anterior"
// @Success      200  {object}  dto.ExpenseListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	out, err := h.listUC.List(c.UserContext(), Tenant(c), reporting.ListQuery{
		Filter: filter,
		Sort: repository.ExpenseSort{
			SortBy: c.Query("sort_by"),
			Desc:   c.QueryBool("desc"),
		},
		Limit:  c.QueryInt("limit"),
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		return expenseError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de gastos en PDF
// @Description  PDF con el conjunto completo filtrado del tenant, para la contadora o el cierre de mes.
// @Tags         expenses
// @Produce      application/pdf
// @Param        estado     query  string  false  "filtro de estado"
// @Param        categoria  query  string  false  "filtro de categoría"
// @Param        desde      query  string  false  "fecha mínima (YYYY-MM-DD)"
// @Param        hasta      query  string  false  "fecha máxima (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Security     BearerAuth
// @Router       /api/expenses/report.pdf [get]
func (h *ExpenseHandler) Report(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	tenant := Tenant(c)

	expenses, err := h.listUC.ListAll(c.UserContext(), tenant, filter)
	if err != nil {
		return expenseError(c, err)
	}
	company, err := h.companies.GetByID(c.UserContext(), tenant.CompanyID)
	if err != nil || company == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
	}

	summary := reporting.Summarize(expenses, tenant.IsAdmin())
	document, err := h.reportGen.GenerateExpenseReport(company, expenses, summary, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-gastos.pdf"`)
	return c.Send(document)
}

// AttachReceipt godoc
// @Summary      Adjuntar comprobante a un gasto
// @Description  Sube el archivo (multipart, campo "file") a la carpeta de Drive de la empresa y lo liga al gasto.
// @Tags         expenses
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID del gasto"
// @Param        file  formData  file    true  "foto o PDF del ticket"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/expenses/{id}/receipt [post]
func (h *ExpenseHandler) AttachReceipt(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere el archivo en el campo file"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "TOO_LARGE", Message: "el archivo supera los 10 MiB"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}
	defer func() { _ = file.Close() }()

	out, err := h.receiptsUC.AttachReceipt(
		c.UserContext(), Tenant(c), c.Params("id"),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file,
	)
	if err != nil {
		return expenseError(c, err)
	}
	return c.JSON(out)
}

// AttachInvoice godoc
// @Summary      Adjuntar factura CFDI a un gasto
// @Description  Recibe el XML del CFDI timbrado en el cuerpo, valida total y RFC receptor y marca el gasto como facturado.
// @Tags         expenses
// @Accept       application/xml
// @Produce      json
// @Param        id  path  string  true  "ID del gasto"
// @Success      200  {object}  dto.ExpenseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/expenses/{id}/invoice [post]
func (h *ExpenseHandler) AttachInvoice(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere el XML del CFDI en el cuerpo"})
	}
	if len(body) > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "TOO_LARGE", Message: "el XML supera los 10 MiB"})
	}

	out, err := h.receiptsUC.AttachInvoice(c.UserContext(), Tenant(c), c.Params("id"), body)
	if err != nil {
		return expenseError(c, err)
	}
	return c.JSON(out)
}

// parseFilter lee los filtros de query compartidos por listado y reporte.
func parseFilter(c *fiber.Ctx) (repository.ExpenseFilter, error) {
	filter := repository.ExpenseFilter{
		UserID:   c.Query("user_id"),
		Status:   c.Query("estado"),
		Category: c.Query("categoria"),
	}
	if filter.Status != "" && !validStatus(filter.Status) {
		return filter, fmt.Errorf("estado desconocido: %q", filter.Status)
	}
	if filter.Category != "" && !validCategory(filter.Category) {
		return filter, fmt.Errorf("categoría desconocida: %q", filter.Category)
	}
	if desde := c.Query("desde"); desde != "" {
		t, err := time.Parse("2006-01-02", desde)
		if err != nil {
			return filter, fmt.Errorf("desde inválido: %q", desde)
		}
		filter.DateFrom = &t
	}
	if hasta := c.Query("hasta"); hasta != "" {
		t, err := time.Parse("2006-01-02", hasta)
		if err != nil {
			return filter, fmt.Errorf("hasta inválido: %q", hasta)
		}
		filter.DateTo = &t
	}
	return filter, nil
}

func validStatus(s string) bool {
	for _, status := range entity.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func validCategory(s string) bool {
	for _, category := range entity.Categories {
		if s == category {
			return true
		}
	}
	return false
}

func expenseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "gasto no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el gasto pertenece a otro usuario"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
