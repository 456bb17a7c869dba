package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jportillac/servicampo-api/internal/application/catalog"
	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain"
)

// CatalogHandler expone el catálogo de repuestos, los proveedores y las
// preferencias de proveedor por ámbito.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Parts godoc
// @Summary      Listar repuestos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        category_id         query  int   false  "Filtrar por categoría"
// @Param        include_deprecated  query  bool  false  "Incluir repuestos en desmonte"  default(false)
// @Param        limit               query  int   false  "Máximo de repuestos"  default(100)
// @Success      200  {array}  dto.PartResponse
// @Router       /api/parts [get]
func (h *CatalogHandler) Parts(c *fiber.Ctx) error {
	var categoryID *int64
	if v := c.QueryInt("category_id", 0); v > 0 {
		id := int64(v)
		categoryID = &id
	}
	out, err := h.uc.Parts(c.Context(), categoryID, c.QueryBool("include_deprecated", false), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Part godoc
// @Summary      Obtener un repuesto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del repuesto"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *CatalogHandler) Part(c *fiber.Ctx) error {
	partID, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Part(c.Context(), partID)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// PartPreferences godoc
// @Summary      Preferencias de proveedor de un repuesto
// @Description  Devuelve la cascada completa (repuesto, tipo, estilo, categoría) y el ámbito efectivo.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del repuesto"
// @Success      200  {object}  dto.PartPreferencesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/preferences [get]
func (h *CatalogHandler) PartPreferences(c *fiber.Ctx) error {
	partID, ok := idParam(c)
	if !ok {
		return nil
	}
	out, err := h.uc.PartPreferences(c.Context(), partID)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// SetPreference godoc
// @Summary      Fijar la preferencia de proveedor de un ámbito
// @Description  Un ámbito tiene a lo sumo un proveedor preferido; fijar de nuevo reemplaza.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreferenceRequest  true  "ámbito, ID del ámbito y proveedor"
// @Success      200  {object}  dto.ScopePreference
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/preferences [put]
func (h *CatalogHandler) SetPreference(c *fiber.Ctx) error {
	var in dto.PreferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetPreference(c.Context(), performer(c), in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// RemovePreference godoc
// @Summary      Quitar la preferencia de proveedor de un ámbito
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        scope    path  string  true  "part|type|style|category"
// @Param        scopeID  path  int     true  "ID del ámbito"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/preferences/{scope}/{scopeID} [delete]
func (h *CatalogHandler) RemovePreference(c *fiber.Ctx) error {
	scopeID, err := c.ParamsInt("scopeID")
	if err != nil || scopeID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "scopeID debe ser un entero positivo"})
	}
	if err := h.uc.RemovePreference(c.Context(), c.Params("scope"), int64(scopeID)); err != nil {
		return catalogError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "preferencia eliminada"})
}

// Categories godoc
// @Summary      Listar categorías del catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Suppliers godoc
// @Summary      Listar proveedores
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        only_active  query  bool  false  "Solo proveedores activos"  default(false)
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *CatalogHandler) Suppliers(c *fiber.Ctx) error {
	out, err := h.uc.Suppliers(c.Context(), c.QueryBool("only_active", false))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// catalogError traduce errores de catálogo al status HTTP.
func catalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrPartNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PART_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
