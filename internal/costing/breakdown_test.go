package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tipoCosto(nombre string, pct float64, prioridad int, activo, obligatorio bool) TipoCosto {
	return TipoCosto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Porcentaje:  decimal.NewFromFloat(pct),
		Obligatorio: obligatorio,
		Prioridad:   prioridad,
		Activo:      activo,
	}
}

func TestCalcularDesgloseEscenarioBase(t *testing.T) {
	// base 10.00, ganancia 20% → 2.00, subtotal 12.00; un costo 5% → 0.60
	d, err := CalcularDesglose(
		decimal.NewFromFloat(10.00),
		decimal.NewFromInt(20),
		[]TipoCosto{tipoCosto("Empaque", 5, 1, true, false)},
	)
	require.NoError(t, err)

	assert.Equal(t, "2.00", d.Ganancia.StringFixed(2))
	assert.Equal(t, "12.00", d.Subtotal.StringFixed(2))
	require.Len(t, d.Costos, 1)
	assert.Equal(t, "0.60", d.Costos[0].Monto.StringFixed(2))
	assert.Equal(t, "12.60", d.PrecioFinal.StringFixed(2))
}

func TestCalcularDesgloseAditividad(t *testing.T) {
	tipos := []TipoCosto{
		tipoCosto("Envio", 7.35, 2, true, false),
		tipoCosto("Empaque", 3.12, 1, true, true),
		tipoCosto("Comision", 11.99, 3, true, false),
	}
	d, err := CalcularDesglose(decimal.NewFromFloat(123.45), decimal.NewFromFloat(33.33), tipos)
	require.NoError(t, err)

	suma := d.CostoBase.Add(d.Ganancia)
	for _, c := range d.Costos {
		suma = suma.Add(c.Monto)
	}
	// Exact additivity after per-term rounding — zero tolerance.
	assert.True(t, suma.Equal(d.PrecioFinal), "esperado %s, suma %s", d.PrecioFinal, suma)
}

func TestCalcularDesgloseNoCompuesto(t *testing.T) {
	// Each cost is a percentage of the subtotal, never of prior costs:
	// subtotal 120.00 with two 10% costs → 12.00 each, final 144.00.
	tipos := []TipoCosto{
		tipoCosto("A", 10, 1, true, false),
		tipoCosto("B", 10, 2, true, false),
	}
	d, err := CalcularDesglose(decimal.NewFromInt(100), decimal.NewFromInt(20), tipos)
	require.NoError(t, err)

	assert.Equal(t, "12.00", d.Costos[0].Monto.StringFixed(2))
	assert.Equal(t, "12.00", d.Costos[1].Monto.StringFixed(2))
	assert.Equal(t, "144.00", d.PrecioFinal.StringFixed(2))
}

func TestCalcularDesgloseOrdenPorPrioridad(t *testing.T) {
	primero := tipoCosto("Primero", 1, 1, true, false)
	segundo := tipoCosto("Segundo", 2, 2, true, false)

	// Input order reversed — output must still be priority-ascending.
	d, err := CalcularDesglose(decimal.NewFromInt(100), decimal.Zero, []TipoCosto{segundo, primero})
	require.NoError(t, err)

	require.Len(t, d.Costos, 2)
	assert.Equal(t, "Primero", d.Costos[0].Nombre)
	assert.Equal(t, "Segundo", d.Costos[1].Nombre)
}

func TestCalcularDesgloseEmpatePorID(t *testing.T) {
	a := tipoCosto("A", 1, 5, true, false)
	b := tipoCosto("B", 2, 5, true, false)
	menor, mayor := a, b
	if string(b.ID[:]) < string(a.ID[:]) {
		menor, mayor = b, a
	}

	for _, entrada := range [][]TipoCosto{{a, b}, {b, a}} {
		d, err := CalcularDesglose(decimal.NewFromInt(100), decimal.Zero, entrada)
		require.NoError(t, err)
		require.Len(t, d.Costos, 2)
		assert.Equal(t, menor.ID, d.Costos[0].TipoCostoID)
		assert.Equal(t, mayor.ID, d.Costos[1].TipoCostoID)
	}
}

func TestCalcularDesgloseInactivoSeOmite(t *testing.T) {
	tipos := []TipoCosto{
		tipoCosto("Activo", 10, 1, true, false),
		tipoCosto("Apagado", 50, 2, false, false),
	}
	d, err := CalcularDesglose(decimal.NewFromInt(100), decimal.Zero, tipos)
	require.NoError(t, err)

	// Skipped entirely, not zeroed.
	require.Len(t, d.Costos, 1)
	assert.Equal(t, "Activo", d.Costos[0].Nombre)
	assert.Equal(t, "110.00", d.PrecioFinal.StringFixed(2))
}

func TestCalcularDesgloseObligatorioInactivo(t *testing.T) {
	apagado := tipoCosto("IVA", 21, 1, false, true)
	_, err := CalcularDesglose(decimal.NewFromInt(100), decimal.NewFromInt(10), []TipoCosto{apagado})

	var cfgErr *CostoObligatorioInactivoError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, apagado.ID, cfgErr.TipoCostoID)
}

func TestCalcularDesgloseDeterminista(t *testing.T) {
	tipos := []TipoCosto{
		tipoCosto("X", 4.44, 2, true, false),
		tipoCosto("Y", 8.88, 1, true, true),
	}
	base := decimal.NewFromFloat(57.89)
	pct := decimal.NewFromFloat(18.25)

	d1, err := CalcularDesglose(base, pct, tipos)
	require.NoError(t, err)
	d2, err := CalcularDesglose(base, pct, tipos)
	require.NoError(t, err)

	assert.Equal(t, d1.PrecioFinal.String(), d2.PrecioFinal.String())
	assert.Equal(t, d1.Costos, d2.Costos)
}
