package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Componente is one recipe entry: cantidad units of the referenced insumo.
type Componente struct {
	InsumoID uuid.UUID
	Cantidad decimal.Decimal
}

// CostoInsumo is the slice of insumo state the resolver needs.
type CostoInsumo struct {
	CostoUnitario decimal.Decimal
	Activo        bool
}

// Catalogo resolves an insumo id to its current unit cost and active flag.
type Catalogo interface {
	BuscarInsumo(id uuid.UUID) (CostoInsumo, bool)
}

// CatalogoMapa is the map-backed Catalogo used by services (and tests) that
// snapshot the insumo table before resolving.
type CatalogoMapa map[uuid.UUID]CostoInsumo

func (m CatalogoMapa) BuscarInsumo(id uuid.UUID) (CostoInsumo, bool) {
	c, ok := m[id]
	return c, ok
}

// CostoComponente is the per-entry detail of a resolved recipe.
// Costo is exact (unrounded); rounding happens once, on the recipe total.
type CostoComponente struct {
	InsumoID      uuid.UUID
	Cantidad      decimal.Decimal
	CostoUnitario decimal.Decimal
	Costo         decimal.Decimal
}

// ResolverCostoReceta computes the base cost of a recipe against the given
// catalog: sum of costo_unitario × cantidad per component, rounded half-up to
// 2 decimals at the final sum only so per-component rounding error cannot
// accumulate.
//
// Quantities are validated before any lookup, so a malformed recipe fails with
// *RecetaInvalidaError even when it also dangles. Missing insumos fail with
// *InsumoDesconocidoError. Inactive insumos are tolerated unless estricto is
// set, in which case they fail with *InsumoInactivoError.
func ResolverCostoReceta(receta []Componente, cat Catalogo, estricto bool) (decimal.Decimal, []CostoComponente, error) {
	for _, comp := range receta {
		if comp.Cantidad.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, nil, &RecetaInvalidaError{InsumoID: comp.InsumoID, Cantidad: comp.Cantidad}
		}
	}

	total := decimal.Zero
	detalle := make([]CostoComponente, 0, len(receta))
	for _, comp := range receta {
		insumo, ok := cat.BuscarInsumo(comp.InsumoID)
		if !ok {
			return decimal.Zero, nil, &InsumoDesconocidoError{InsumoID: comp.InsumoID}
		}
		if estricto && !insumo.Activo {
			return decimal.Zero, nil, &InsumoInactivoError{InsumoID: comp.InsumoID}
		}
		costo := insumo.CostoUnitario.Mul(comp.Cantidad)
		detalle = append(detalle, CostoComponente{
			InsumoID:      comp.InsumoID,
			Cantidad:      comp.Cantidad,
			CostoUnitario: insumo.CostoUnitario,
			Costo:         costo,
		})
		total = total.Add(costo)
	}

	return total.Round(2), detalle, nil
}
