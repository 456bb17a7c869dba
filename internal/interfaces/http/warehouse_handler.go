package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/application/warehouse"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WarehouseHandler expone el tablero de bodega, el inventario y la zona de
// preparación.
type WarehouseHandler struct {
	uc     *warehouse.UseCase
	export *warehouse.ExportUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *warehouse.UseCase, export *warehouse.ExportUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc, export: export}
}

// Dashboard godoc
// @Summary      KPIs de bodega
// @Description  El valor total del inventario solo se incluye para administradores.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardKPIs
// @Router       /api/warehouse/dashboard [get]
func (h *WarehouseHandler) Dashboard(c *fiber.Ctx) error {
	includeValue := GetRole(c) == entity.RoleAdmin
	out, err := h.uc.Dashboard(c.Context(), includeValue)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad reciente de la bodega
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de entradas"  default(20)
// @Success      200  {array}  dto.ActivityEntry
// @Router       /api/warehouse/activity [get]
func (h *WarehouseHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Tasks godoc
// @Summary      Tareas pendientes
// @Description  Repuestos bajo mínimo, material envejecido en preparación y auditorías abiertas.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PendingTask
// @Router       /api/warehouse/tasks [get]
func (h *WarehouseHandler) Tasks(c *fiber.Ctx) error {
	out, err := h.uc.Tasks(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Inventario de bodega
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WarehouseInventoryResponse
// @Router       /api/warehouse/inventory [get]
func (h *WarehouseHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.Inventory(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el inventario a Excel
// @Tags         warehouse
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/warehouse/inventory/export [get]
func (h *WarehouseHandler) Export(c *fiber.Ctx) error {
	xlsx, filename, err := h.export.Download(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(xlsx)
}

// Staging godoc
// @Summary      Zona de preparación
// @Description  Material apartado por trabajo, con alerta de envejecimiento por antigüedad.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StagingResponse
// @Router       /api/warehouse/staging [get]
func (h *WarehouseHandler) Staging(c *fiber.Ctx) error {
	out, err := h.uc.Staging(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
