package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jportillac/servicampo-api/internal/application/audit"
	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain"
)

// AuditHandler maneja las sesiones de conteo físico y sus ajustes.
type AuditHandler struct {
	uc     *audit.UseCase
	report *audit.ReportUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase, report *audit.ReportUseCase) *AuditHandler {
	return &AuditHandler{uc: uc, report: report}
}

// Start godoc
// @Summary      Iniciar una auditoría
// @Description  spot_check exige part_ids, category exige category_id y rolling arma el siguiente lote automáticamente.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AuditStartRequest  true  "estrategia, ubicación y selección"
// @Success      201   {object}  dto.AuditDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/audits [post]
func (h *AuditHandler) Start(c *fiber.Ctx) error {
	var in dto.AuditStartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Start(c.Context(), performer(c), in)
	if err != nil {
		return auditError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar auditorías
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "in_progress|paused|completed"
// @Param        limit   query  int     false  "Máximo de sesiones"  default(50)
// @Success      200  {array}  dto.AuditResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	out, err := h.uc.List(c.Context(), status, c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RollingPreview godoc
// @Summary      Previsualizar el próximo lote rotativo
// @Description  Muestra qué repuestos cubriría la siguiente sesión rolling sin crearla.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RollingPreviewResponse
// @Router       /api/audits/rolling/preview [get]
func (h *AuditHandler) RollingPreview(c *fiber.Ctx) error {
	out, err := h.uc.RollingPreview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Detail godoc
// @Summary      Detalle de una auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {object}  dto.AuditDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id} [get]
func (h *AuditHandler) Detail(c *fiber.Ctx) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Detail(c.Context(), auditID)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(out)
}

// NextItem godoc
// @Summary      Siguiente ítem pendiente de conteo
// @Description  Devuelve item:null cuando no quedan pendientes.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/next [get]
func (h *AuditHandler) NextItem(c *fiber.Ctx) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	item, err := h.uc.NextItem(c.Context(), auditID)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(fiber.Map{"item": item})
}

// Count godoc
// @Summary      Registrar el conteo de un ítem
// @Description  actual_qty registra el conteo; skip:true lo omite. El resultado del ítem es terminal.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  int  true  "ID de la auditoría"
// @Param        itemID  path  int  true  "ID del ítem"
// @Param        body    body  dto.AuditCountRequest  true  "conteo u omisión"
// @Success      200  {object}  dto.AuditResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/items/{itemID}/count [post]
func (h *AuditHandler) Count(c *fiber.Ctx) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	itemID, err := c.ParamsInt("itemID")
	if err != nil || itemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "itemID debe ser un entero positivo"})
	}
	var in dto.AuditCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordCount(c.Context(), auditID, int64(itemID), in)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(out)
}

// Pause godoc
// @Summary      Pausar una auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {object}  dto.AuditResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/pause [post]
func (h *AuditHandler) Pause(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Pause)
}

// Resume godoc
// @Summary      Reanudar una auditoría pausada
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {object}  dto.AuditResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/resume [post]
func (h *AuditHandler) Resume(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Resume)
}

// Complete godoc
// @Summary      Cerrar una auditoría
// @Description  El cierre es terminal; los pendientes quedan sin contar y las discrepancias listas para ajustar.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {object}  dto.AuditSummary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/complete [post]
func (h *AuditHandler) Complete(c *fiber.Ctx) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Complete(c.Context(), auditID)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(out)
}

// ApplyAdjustments godoc
// @Summary      Aplicar los ajustes de una auditoría completada
// @Description  Cada discrepancia se ajusta en su propia transacción; un fallo no bloquea las demás. No se puede aplicar dos veces.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {object}  dto.AdjustmentsResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/adjustments [post]
func (h *AuditHandler) ApplyAdjustments(c *fiber.Ctx) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ApplyAdjustments(c.Context(), performer(c), auditID)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Informe PDF de una auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la auditoría"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/report [get]
func (h *AuditHandler) Report(c *fiber.Ctx) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	pdfBytes, filename, err := h.report.Download(c.Context(), auditID)
	if err != nil {
		return auditError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

func (h *AuditHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, auditID int64) (*dto.AuditResponse, error)) error {
	auditID, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := fn(c.Context(), auditID)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(out)
}

// idParam lee :id de la ruta; responde 400 y devuelve ok=false si no es un
// entero positivo.
func idParam(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero positivo"})
		return 0, false
	}
	return int64(id), true
}

// auditError traduce errores de dominio de auditorías al status HTTP.
func auditError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrAuditNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "AUDIT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrAuditItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrPartNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PART_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrAuditNotActive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "AUDIT_NOT_ACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrAuditCompleted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "AUDIT_COMPLETED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
