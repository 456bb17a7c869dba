package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// MovementHandler maneja el ciclo del asistente de movimientos: validar,
// previsualizar, ejecutar, recibir mercancía y consultar el historial.
type MovementHandler struct {
	validate *movement.ValidateUseCase
	preview  *movement.PreviewUseCase
	execute  *movement.ExecuteUseCase
	history  *movement.HistoryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	validate *movement.ValidateUseCase,
	preview *movement.PreviewUseCase,
	execute *movement.ExecuteUseCase,
	history *movement.HistoryUseCase,
) *MovementHandler {
	return &MovementHandler{validate: validate, preview: preview, execute: execute, history: history}
}

// Validate godoc
// @Summary      Validar un movimiento sin ejecutarlo
// @Description  Los problemas de negocio (ruta, existencia, stock) vuelven en la lista errors con HTTP 200; solo fallas de infraestructura dan 500.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "origen, destino e ítems"
// @Success      200   {object}  dto.MovementValidation
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/warehouse/movements/validate [post]
func (h *MovementHandler) Validate(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items no puede estar vacío"})
	}
	out, err := h.validate.Validate(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Previsualizar un movimiento
// @Description  Resuelve proveedor por línea (explícito, preferencia en cascada o FIFO) y calcula los antes/después sin mutar nada.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "origen, destino e ítems"
// @Success      200   {object}  dto.MovementPreview
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/warehouse/movements/preview [post]
func (h *MovementHandler) Preview(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.preview.Preview(c.Context(), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// Execute godoc
// @Summary      Ejecutar un movimiento
// @Description  Mueve stock entre ubicaciones en una transacción con updates condicionados; si otro proceso consumió el stock primero, responde 409.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "origen, destino e ítems"
// @Success      201   {object}  dto.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/warehouse/movements [post]
func (h *MovementHandler) Execute(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.execute.Execute(c.Context(), performer(c), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Recibir mercancía a bodega
// @Description  Alta de stock por proveedor, con actualización opcional de estante/cajón sugeridos.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "ítems recibidos"
// @Success      201   {object}  dto.ReceiveResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouse/receive [post]
func (h *MovementHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items no puede estar vacío"})
	}
	out, err := h.execute.Receive(c.Context(), performer(c), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        part_id        query  int     false  "Filtrar por repuesto"
// @Param        location_type  query  string  false  "warehouse|staging|truck|job (coincide origen o destino)"
// @Param        location_id    query  int     false  "ID de la ubicación"
// @Param        kind           query  string  false  "transfer|consume|return|receive|adjust"
// @Param        job_id         query  int     false  "Filtrar por trabajo"
// @Param        limit          query  int     false  "Máximo de entradas"  default(50)
// @Success      200  {array}   dto.MovementLogEntry
// @Router       /api/warehouse/movements [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	filter := dto.MovementHistoryFilter{Limit: c.QueryInt("limit", 0)}
	if v := c.QueryInt("part_id", 0); v > 0 {
		id := int64(v)
		filter.PartID = &id
	}
	if v := c.Query("location_type"); v != "" {
		filter.LocationType = &v
	}
	if v := c.QueryInt("location_id", 0); v > 0 {
		id := int64(v)
		filter.LocationID = &id
	}
	if v := c.Query("kind"); v != "" {
		filter.Kind = &v
	}
	if v := c.QueryInt("job_id", 0); v > 0 {
		id := int64(v)
		filter.JobID = &id
	}
	out, err := h.history.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Reasons godoc
// @Summary      Catálogo de motivos del asistente
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReasonCategoryResponse
// @Router       /api/warehouse/reasons [get]
func (h *MovementHandler) Reasons(c *fiber.Ctx) error {
	out := make([]dto.ReasonCategoryResponse, 0, len(entity.ReasonCategories))
	for _, rc := range entity.ReasonCategories {
		out = append(out, dto.ReasonCategoryResponse{Category: rc.Category, Details: rc.Details})
	}
	return c.JSON(out)
}

// movementError traduce los errores de dominio del motor de movimientos al
// status HTTP que corresponde.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrPartNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PART_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnsupportedPath):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_PATH", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrExecutionFailure):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EXECUTION_FAILURE", Message: "el stock cambió durante la ejecución, valide y reintente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// performer nombre con el que se firman movimientos y conteos; cae al id si
// el token no trae nombre.
func performer(c *fiber.Ctx) string {
	if name := GetUserName(c); name != "" {
		return name
	}
	return GetUserID(c)
}
