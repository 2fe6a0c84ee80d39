package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverCostoReceta(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	cat := CatalogoMapa{
		a: {CostoUnitario: decimal.NewFromFloat(2.00), Activo: true},
		b: {CostoUnitario: decimal.NewFromFloat(5.00), Activo: true},
	}

	total, detalle, err := ResolverCostoReceta([]Componente{
		{InsumoID: a, Cantidad: decimal.NewFromInt(3)},
		{InsumoID: b, Cantidad: decimal.NewFromInt(2)},
	}, cat, false)

	require.NoError(t, err)
	assert.Equal(t, "16.00", total.StringFixed(2))
	require.Len(t, detalle, 2)
	assert.Equal(t, "6", detalle[0].Costo.String())
	assert.Equal(t, "10", detalle[1].Costo.String())
}

func TestResolverRecetaVacia(t *testing.T) {
	total, detalle, err := ResolverCostoReceta(nil, CatalogoMapa{}, false)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Empty(t, detalle)
}

func TestResolverCantidadInvalida(t *testing.T) {
	a := uuid.New()
	cat := CatalogoMapa{a: {CostoUnitario: decimal.NewFromFloat(2.00), Activo: true}}

	_, _, err := ResolverCostoReceta([]Componente{
		{InsumoID: a, Cantidad: decimal.Zero},
	}, cat, false)

	var recErr *RecetaInvalidaError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, a, recErr.InsumoID)
}

func TestResolverCantidadInvalidaGanaAInsumoDesconocido(t *testing.T) {
	// A malformed quantity must be reported even when the same recipe also
	// references an unknown insumo: quantities are validated first.
	desconocido := uuid.New()
	_, _, err := ResolverCostoReceta([]Componente{
		{InsumoID: desconocido, Cantidad: decimal.NewFromInt(1)},
		{InsumoID: uuid.New(), Cantidad: decimal.NewFromInt(-1)},
	}, CatalogoMapa{}, false)

	var recErr *RecetaInvalidaError
	require.ErrorAs(t, err, &recErr)
}

func TestResolverInsumoDesconocido(t *testing.T) {
	fantasma := uuid.New()
	_, _, err := ResolverCostoReceta([]Componente{
		{InsumoID: fantasma, Cantidad: decimal.NewFromInt(1)},
	}, CatalogoMapa{}, false)

	var descErr *InsumoDesconocidoError
	require.ErrorAs(t, err, &descErr)
	assert.Equal(t, fantasma, descErr.InsumoID)
}

func TestResolverInsumoInactivoPermitidoPorDefecto(t *testing.T) {
	retirado := uuid.New()
	cat := CatalogoMapa{retirado: {CostoUnitario: decimal.NewFromFloat(4.50), Activo: false}}

	total, _, err := ResolverCostoReceta([]Componente{
		{InsumoID: retirado, Cantidad: decimal.NewFromInt(2)},
	}, cat, false)

	require.NoError(t, err)
	assert.Equal(t, "9.00", total.StringFixed(2))
}

func TestResolverInsumoInactivoEstricto(t *testing.T) {
	retirado := uuid.New()
	cat := CatalogoMapa{retirado: {CostoUnitario: decimal.NewFromFloat(4.50), Activo: false}}

	_, _, err := ResolverCostoReceta([]Componente{
		{InsumoID: retirado, Cantidad: decimal.NewFromInt(2)},
	}, cat, true)

	var inactErr *InsumoInactivoError
	require.ErrorAs(t, err, &inactErr)
	assert.Equal(t, retirado, inactErr.InsumoID)
}

func TestResolverRedondeoSoloAlTotal(t *testing.T) {
	// Two components of 0.0125 each: rounding the final sum (0.025 → 0.03)
	// differs from rounding per component (0.01 + 0.01 = 0.02).
	a, b := uuid.New(), uuid.New()
	cat := CatalogoMapa{
		a: {CostoUnitario: decimal.NewFromFloat(0.10), Activo: true},
		b: {CostoUnitario: decimal.NewFromFloat(0.10), Activo: true},
	}

	total, detalle, err := ResolverCostoReceta([]Componente{
		{InsumoID: a, Cantidad: decimal.NewFromFloat(0.125)},
		{InsumoID: b, Cantidad: decimal.NewFromFloat(0.125)},
	}, cat, false)

	require.NoError(t, err)
	assert.Equal(t, "0.03", total.StringFixed(2))
	// Per-component detail stays exact
	assert.Equal(t, "0.0125", detalle[0].Costo.String())
}
