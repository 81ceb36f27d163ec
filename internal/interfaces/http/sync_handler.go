package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturamx/gastos-api/internal/application/dto"
	appsync "github.com/facturamx/gastos-api/internal/application/sync"
	"github.com/facturamx/gastos-api/internal/domain"
)

// SyncHandler dispara la sincronización del tablero y la detección de mapeo.
type SyncHandler struct {
	orchestrator *appsync.Orchestrator
}

// NewSyncHandler construye el handler de sincronización.
func NewSyncHandler(orchestrator *appsync.Orchestrator) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator}
}

// Synchronize godoc
// @Summary      Sincronizar el tablero de gastos (solo admin)
// @Description  Recorre el tablero completo, traduce cada item y reconcilia contra los gastos del tenant. Idempotente: re-ejecutar sin cambios no duplica nada.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncRequest  false  "board_id y mapping explícito, ambos opcionales"
// @Success      200   {object}  entity.SyncResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sync [post]
func (h *SyncHandler) Synchronize(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	result, err := h.orchestrator.Synchronize(c.UserContext(), Tenant(c), in.BoardID, in.Mapping)
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(result)
}

// DetectMapping godoc
// @Summary      Detectar el mapeo de columnas (solo admin)
// @Description  Dry-run del resolver de columnas para que la UI muestre qué columna alimenta cada campo antes de sincronizar.
// @Tags         sync
// @Produce      json
// @Param        board_id  query  string  false  "vacío usa el tablero configurado en la empresa"
// @Success      200  {object}  dto.MappingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sync/mapping [get]
func (h *SyncHandler) DetectMapping(c *fiber.Ctx) error {
	out, err := h.orchestrator.DetectMapping(c.UserContext(), Tenant(c), c.Query("board_id"))
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(out)
}

func syncError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrBoardNotConfigured):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BOARD_NOT_CONFIGURED", Message: "configura primero el tablero de gastos de la empresa"})
	case errors.Is(err, domain.ErrMappingIncomplete):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MAPPING_INCOMPLETE", Message: err.Error()})
	case errors.Is(err, domain.ErrUpstreamFailure):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_FAILURE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
