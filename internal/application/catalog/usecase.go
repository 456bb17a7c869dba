// Package catalog expone la parte del catálogo que el motor de bodega
// necesita: consulta de repuestos y proveedores, y administración de las
// preferencias de proveedor por ámbito. El catálogo en sí (altas, precios,
// jerarquía) lo administra otro sistema.
package catalog

import (
	"context"
	"fmt"

	"github.com/jportillac/servicampo-api/internal/application/dto"
	"github.com/jportillac/servicampo-api/internal/domain"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

const partListDefaultLimit = 100

// UseCase consultas de catálogo y preferencias de proveedor.
type UseCase struct {
	parts      repository.PartRepository
	suppliers  repository.SupplierRepository
	prefs      repository.PreferenceRepository
	categories repository.CategoryRepository
	log        *logger.Logger
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(
	parts repository.PartRepository,
	suppliers repository.SupplierRepository,
	prefs repository.PreferenceRepository,
	categories repository.CategoryRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		parts:      parts,
		suppliers:  suppliers,
		prefs:      prefs,
		categories: categories,
		log:        log.Component("catalog"),
	}
}

// Categories lista las categorías del catálogo (para filtros y para elegir
// el alcance de una auditoría de categoría).
func (uc *UseCase) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := uc.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// Parts listado de repuestos, opcionalmente por categoría. Los deprecados
// solo aparecen si se piden explícitamente.
func (uc *UseCase) Parts(ctx context.Context, categoryID *int64, includeDeprecated bool, limit int) ([]dto.PartResponse, error) {
	if limit <= 0 {
		limit = partListDefaultLimit
	}
	parts, err := uc.parts.List(ctx, categoryID, includeDeprecated, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, toPartResponse(p))
	}
	return out, nil
}

// Part un repuesto por id.
func (uc *UseCase) Part(ctx context.Context, id int64) (*dto.PartResponse, error) {
	part, err := uc.parts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrPartNotFound, id)
	}
	resp := toPartResponse(part)
	return &resp, nil
}

// Suppliers directorio de proveedores.
func (uc *UseCase) Suppliers(ctx context.Context, onlyActive bool) ([]dto.SupplierResponse, error) {
	suppliers, err := uc.suppliers.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, dto.SupplierResponse{ID: s.ID, Name: s.Name, Active: s.Active})
	}
	return out, nil
}

// PartPreferences arma la vista de cascada de un repuesto: qué hay
// configurado en cada ámbito de su ascendencia y cuál gana. El ganador es el
// primer ámbito configurado en orden part -> type -> style -> category; la
// condición de stock suficiente es cosa del resolutor en el momento de mover.
func (uc *UseCase) PartPreferences(ctx context.Context, partID int64) (*dto.PartPreferencesResponse, error) {
	part, err := uc.parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrPartNotFound, partID)
	}

	scopeIDs := map[string]*int64{
		entity.PrefScopePart:     &part.ID,
		entity.PrefScopeType:     part.TypeID,
		entity.PrefScopeStyle:    part.StyleID,
		entity.PrefScopeCategory: part.CategoryID,
	}
	resp := &dto.PartPreferencesResponse{PartID: partID, Configured: []dto.ScopePreference{}}
	for _, scope := range entity.PrefScopes {
		id := scopeIDs[scope]
		if id == nil {
			continue
		}
		pref, err := uc.prefs.GetByScope(ctx, scope, *id)
		if err != nil {
			return nil, fmt.Errorf("preferencias de %s: %w", scope, err)
		}
		if pref == nil {
			continue
		}
		name, err := uc.supplierName(ctx, pref.SupplierID)
		if err != nil {
			return nil, err
		}
		resp.Configured = append(resp.Configured, dto.ScopePreference{
			Scope:        pref.Scope,
			ScopeID:      pref.ScopeID,
			SupplierID:   pref.SupplierID,
			SupplierName: name,
			UpdatedAt:    pref.UpdatedAt,
		})
		if resp.Effective == nil {
			resp.Effective = &dto.EffectivePreference{
				SupplierID:   pref.SupplierID,
				SupplierName: name,
				Scope:        pref.Scope,
			}
		}
	}
	return resp, nil
}

// SetPreference fija el proveedor preferido de un ámbito, reemplazando el
// anterior si existía.
func (uc *UseCase) SetPreference(ctx context.Context, performer string, req dto.PreferenceRequest) (*dto.ScopePreference, error) {
	if !entity.ValidPrefScope(req.Scope) {
		return nil, fmt.Errorf("%w: ámbito %q", domain.ErrInvalidInput, req.Scope)
	}
	if req.ScopeID <= 0 || req.SupplierID <= 0 {
		return nil, fmt.Errorf("%w: ids de ámbito y proveedor son obligatorios", domain.ErrInvalidInput)
	}
	supplier, err := uc.suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %d", domain.ErrNotFound, req.SupplierID)
	}
	if !supplier.Active {
		return nil, fmt.Errorf("%w: el proveedor %s está inactivo", domain.ErrInvalidInput, supplier.Name)
	}

	pref := &entity.SupplierPreference{
		Scope:      req.Scope,
		ScopeID:    req.ScopeID,
		SupplierID: req.SupplierID,
		UpdatedBy:  performer,
	}
	if err := uc.prefs.Upsert(ctx, pref); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("scope", pref.Scope).
		Int64("scope_id", pref.ScopeID).
		Int64("supplier_id", pref.SupplierID).
		Str("updated_by", performer).
		Msg("preferencia de proveedor actualizada")
	return &dto.ScopePreference{
		Scope:        pref.Scope,
		ScopeID:      pref.ScopeID,
		SupplierID:   pref.SupplierID,
		SupplierName: supplier.Name,
		UpdatedAt:    pref.UpdatedAt,
	}, nil
}

// RemovePreference borra la preferencia de un ámbito; el resolutor vuelve a
// cascadear o a FIFO en los próximos movimientos.
func (uc *UseCase) RemovePreference(ctx context.Context, scope string, scopeID int64) error {
	if !entity.ValidPrefScope(scope) {
		return fmt.Errorf("%w: ámbito %q", domain.ErrInvalidInput, scope)
	}
	if err := uc.prefs.Delete(ctx, scope, scopeID); err != nil {
		return err
	}
	uc.log.Info().
		Str("scope", scope).
		Int64("scope_id", scopeID).
		Msg("preferencia de proveedor eliminada")
	return nil
}

func (uc *UseCase) supplierName(ctx context.Context, id int64) (string, error) {
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return s.Name, nil
}

func toPartResponse(p *entity.Part) dto.PartResponse {
	return dto.PartResponse{
		ID:            p.ID,
		Name:          p.Name,
		PartNumber:    p.PartNumber,
		CategoryID:    p.CategoryID,
		StyleID:       p.StyleID,
		TypeID:        p.TypeID,
		UnitCost:      p.UnitCost,
		UnitSell:      p.UnitSell,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		TargetStock:   p.TargetStock,
		ShelfLocation: p.ShelfLocation,
		BinLocation:   p.BinLocation,
		Deprecated:    p.Deprecated,
	}
}
