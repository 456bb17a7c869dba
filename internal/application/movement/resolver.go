package movement

import (
	"context"
	"fmt"

	"github.com/jportillac/servicampo-api/internal/domain/entity"
	"github.com/jportillac/servicampo-api/internal/domain/repository"
)

// Fuentes de resolución de proveedor, en orden de prioridad.
const (
	SourceExplicit  = "explicit"  // el usuario fijó el proveedor en la línea
	SourcePreferred = "preferred" // preferencia en cascada con stock suficiente
	SourceFIFO      = "fifo"      // fila más antigua con existencias
	SourceNone      = "none"      // sin filas: stock anónimo/general
)

// Resolution indica de qué proveedor saldrá el stock de una línea y por qué.
type Resolution struct {
	SupplierID   *int64
	SupplierName string
	Source       string
}

// SupplierResolver decide, por línea, el proveedor del que se mueve stock.
// Es de solo lectura y determinista: mismas existencias y preferencias,
// misma respuesta. El ejecutor lo vuelve a invocar dentro de la transacción.
type SupplierResolver struct {
	stock     repository.StockRepository
	prefs     repository.PreferenceRepository
	suppliers repository.SupplierRepository
}

// NewSupplierResolver construye el resolutor sobre los repos dados (pool o tx).
func NewSupplierResolver(
	stock repository.StockRepository,
	prefs repository.PreferenceRepository,
	suppliers repository.SupplierRepository,
) *SupplierResolver {
	return &SupplierResolver{stock: stock, prefs: prefs, suppliers: suppliers}
}

// Resolve aplica la prioridad estricta:
//  1. proveedor explícito de la línea;
//  2. preferido en cascada (part -> type -> style -> category), solo si su
//     fila en el origen cubre la cantidad pedida;
//  3. FIFO: la fila con existencias más antigua del origen;
//  4. sin filas: proveedor "ninguno" (stock anónimo).
func (r *SupplierResolver) Resolve(ctx context.Context, part *entity.Part, source entity.Location, explicitID *int64, qty int) (Resolution, error) {
	if explicitID != nil {
		name, err := r.supplierName(ctx, *explicitID)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{SupplierID: explicitID, SupplierName: name, Source: SourceExplicit}, nil
	}

	preferred, err := r.cascadePreference(ctx, part)
	if err != nil {
		return Resolution{}, err
	}
	if preferred != nil {
		row, err := r.stock.Get(ctx, part.ID, source, preferred)
		if err != nil {
			return Resolution{}, err
		}
		if row != nil && row.Qty >= qty {
			name, err := r.supplierName(ctx, *preferred)
			if err != nil {
				return Resolution{}, err
			}
			return Resolution{SupplierID: preferred, SupplierName: name, Source: SourcePreferred}, nil
		}
		// preferido sin stock suficiente: cae a FIFO
	}

	rows, err := r.stock.ListAt(ctx, part.ID, source)
	if err != nil {
		return Resolution{}, err
	}
	for _, row := range rows {
		if row.Qty <= 0 {
			continue
		}
		res := Resolution{SupplierID: row.SupplierID, Source: SourceFIFO}
		if row.SupplierID != nil {
			name, err := r.supplierName(ctx, *row.SupplierID)
			if err != nil {
				return Resolution{}, err
			}
			res.SupplierName = name
		}
		return res, nil
	}
	return Resolution{Source: SourceNone}, nil
}

// cascadePreference devuelve el proveedor preferido del primer ámbito
// configurado en la ascendencia del repuesto, o nil si no hay ninguno.
func (r *SupplierResolver) cascadePreference(ctx context.Context, part *entity.Part) (*int64, error) {
	scopeIDs := map[string]*int64{
		entity.PrefScopePart:     &part.ID,
		entity.PrefScopeType:     part.TypeID,
		entity.PrefScopeStyle:    part.StyleID,
		entity.PrefScopeCategory: part.CategoryID,
	}
	for _, scope := range entity.PrefScopes {
		id := scopeIDs[scope]
		if id == nil {
			continue
		}
		pref, err := r.prefs.GetByScope(ctx, scope, *id)
		if err != nil {
			return nil, fmt.Errorf("resolve preference %s: %w", scope, err)
		}
		if pref != nil {
			supplierID := pref.SupplierID
			return &supplierID, nil
		}
	}
	return nil, nil
}

func (r *SupplierResolver) supplierName(ctx context.Context, id int64) (string, error) {
	s, err := r.suppliers.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return s.Name, nil
}
