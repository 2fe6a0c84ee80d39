// Package costing implements the recipe cost resolver and the dynamic cost
// breakdown calculator. Both are pure: they read the inputs they are given and
// never touch persistence, so they are safe for concurrent use.
//
// All money math uses shopspring/decimal with 2-digit currency precision —
// binary floats are never used for monetary amounts.
package costing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecetaInvalidaError reports a recipe entry with a non-positive quantity.
type RecetaInvalidaError struct {
	InsumoID uuid.UUID
	Cantidad decimal.Decimal
}

func (e *RecetaInvalidaError) Error() string {
	return fmt.Sprintf("receta invalida: cantidad %s para insumo %s (debe ser > 0)", e.Cantidad, e.InsumoID)
}

// InsumoDesconocidoError reports a recipe reference to an insumo that does not
// exist in the catalog.
type InsumoDesconocidoError struct {
	InsumoID uuid.UUID
}

func (e *InsumoDesconocidoError) Error() string {
	return fmt.Sprintf("insumo desconocido: %s", e.InsumoID)
}

// InsumoInactivoError reports a strict-mode resolution that hit a logically
// deleted insumo. Outside strict mode inactive references are allowed, since
// historical recipes may point at retired insumos.
type InsumoInactivoError struct {
	InsumoID uuid.UUID
}

func (e *InsumoInactivoError) Error() string {
	return fmt.Sprintf("insumo inactivo referenciado: %s", e.InsumoID)
}

// CostoObligatorioInactivoError reports an obligatorio tipo de costo that is
// flagged inactive. The calculator refuses to silently omit it.
type CostoObligatorioInactivoError struct {
	TipoCostoID uuid.UUID
	Nombre      string
}

func (e *CostoObligatorioInactivoError) Error() string {
	return fmt.Sprintf("tipo de costo obligatorio inactivo: %s (%s)", e.Nombre, e.TipoCostoID)
}
