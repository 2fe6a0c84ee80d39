package costing

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// TipoCosto is the calculator's view of a configured cost type.
type TipoCosto struct {
	ID          uuid.UUID
	Nombre      string
	Porcentaje  decimal.Decimal
	Obligatorio bool
	Prioridad   int
	Activo      bool
}

// CostoAplicado is one applied cost line of a breakdown.
type CostoAplicado struct {
	TipoCostoID uuid.UUID       `json:"tipo_costo_id"`
	Nombre      string          `json:"nombre"`
	Porcentaje  decimal.Decimal `json:"porcentaje"`
	Monto       decimal.Decimal `json:"monto"`
}

// Desglose is the computed price breakdown of a product. It is derived on
// demand and never persisted: it always reflects current insumo costs and the
// tipo de costo configuration at computation time.
//
// Invariant: PrecioFinal = CostoBase + Ganancia + Σ Costos[i].Monto, exact
// after 2-decimal rounding of each term.
type Desglose struct {
	CostoBase          decimal.Decimal `json:"costo_base"`
	PorcentajeGanancia decimal.Decimal `json:"porcentaje_ganancia"`
	Ganancia           decimal.Decimal `json:"ganancia"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Costos             []CostoAplicado `json:"costos"`
	PrecioFinal        decimal.Decimal `json:"precio_final"`
}

// CalcularDesglose computes the deterministic price breakdown:
//
//	ganancia    = costoBase × porcentajeGanancia / 100   (rounded 2dp)
//	subtotal    = costoBase + ganancia
//	monto[i]    = subtotal × porcentaje[i] / 100          (rounded 2dp)
//	precioFinal = subtotal + Σ monto[i]
//
// Every monto is a percentage of the subtotal — additional costs do not
// compound on each other. Tipos are applied in ascending Prioridad, ties
// broken by ascending ID, regardless of input slice order. Inactive tipos are
// skipped entirely unless Obligatorio, which is a configuration error.
func CalcularDesglose(costoBase, porcentajeGanancia decimal.Decimal, tipos []TipoCosto) (*Desglose, error) {
	ordenados := make([]TipoCosto, len(tipos))
	copy(ordenados, tipos)
	sort.SliceStable(ordenados, func(i, j int) bool {
		if ordenados[i].Prioridad != ordenados[j].Prioridad {
			return ordenados[i].Prioridad < ordenados[j].Prioridad
		}
		return bytes.Compare(ordenados[i].ID[:], ordenados[j].ID[:]) < 0
	})

	ganancia := costoBase.Mul(porcentajeGanancia).Div(cien).Round(2)
	subtotal := costoBase.Add(ganancia)

	costos := make([]CostoAplicado, 0, len(ordenados))
	precioFinal := subtotal
	for _, t := range ordenados {
		if !t.Activo {
			if t.Obligatorio {
				return nil, &CostoObligatorioInactivoError{TipoCostoID: t.ID, Nombre: t.Nombre}
			}
			continue
		}
		monto := subtotal.Mul(t.Porcentaje).Div(cien).Round(2)
		costos = append(costos, CostoAplicado{
			TipoCostoID: t.ID,
			Nombre:      t.Nombre,
			Porcentaje:  t.Porcentaje,
			Monto:       monto,
		})
		precioFinal = precioFinal.Add(monto)
	}

	return &Desglose{
		CostoBase:          costoBase,
		PorcentajeGanancia: porcentajeGanancia,
		Ganancia:           ganancia,
		Subtotal:           subtotal,
		Costos:             costos,
		PrecioFinal:        precioFinal,
	}, nil
}
