package service_test

import (
	"context"
	"testing"

	"saborpos/internal/model"
	"saborpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type entornoEspejo struct {
	productos *stubProductoRepo
	insumos   *stubInsumoRepo
	historial *stubHistorialRepo
	svc       service.EspejoService
}

func nuevoEntornoEspejo() *entornoEspejo {
	productos := newStubProductoRepo()
	insumos := newStubInsumoRepo()
	historial := newStubHistorialRepo()
	return &entornoEspejo{
		productos: productos,
		insumos:   insumos,
		historial: historial,
		svc:       service.NewEspejoService(productos, insumos, historial),
	}
}

// productoConReceta seeds a component insumo and a product whose recipe uses it.
func (e *entornoEspejo) productoConReceta(nombre, costoComponente, cantidad string, esEspejo bool) (*model.Producto, *model.Insumo) {
	componente := e.insumos.agregar(model.Insumo{
		Nombre:        "Componente de " + nombre,
		Categoria:     "Materia Prima",
		CostoUnitario: dec(costoComponente),
		Activo:        true,
	})
	p := &model.Producto{
		ID:              uuid.New(),
		SKU:             "SKU-" + nombre,
		Nombre:          nombre,
		Categoria:       "Salsas",
		EsTambienInsumo: esEspejo,
		Activo:          true,
		Receta: []model.RecetaItem{
			{InsumoID: componente.ID, Cantidad: dec(cantidad)},
		},
	}
	_ = e.productos.CreateTx(nil, p)
	return p, componente
}

func TestSincronizarCreaEspejoEnPrimeraActivacion(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa de Tomate", "1.50", "2", true)

	res, err := e.svc.SincronizarTx(context.Background(), nil, p, p.Nombre)
	require.NoError(t, err)

	assert.Equal(t, service.EspejoActivo, res.Estado)
	assert.True(t, res.Escrito)
	require.NotNil(t, res.InsumoID)

	espejo := e.insumos.buscar(*res.InsumoID)
	require.NotNil(t, espejo)
	assert.Equal(t, "Salsa de Tomate", espejo.Nombre)
	assert.Equal(t, model.CategoriaEspejo, espejo.Categoria)
	assert.True(t, espejo.Activo)
	assert.True(t, espejo.EsTambienProducto)
	assert.Equal(t, "3.00", espejo.CostoUnitario.StringFixed(2))

	// Creation is recorded in the cost history
	require.Len(t, e.historial.registros, 1)
	assert.Equal(t, "sincronizacion", e.historial.registros[0].Motivo)
	assert.Equal(t, "3.00", e.historial.registros[0].CostoDespues.StringFixed(2))
}

func TestSincronizarEsIdempotente(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa de Tomate", "1.50", "2", true)
	ctx := context.Background()

	res1, err := e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	require.True(t, res1.Escrito)

	res2, err := e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)

	assert.False(t, res2.Escrito)
	assert.Equal(t, *res1.InsumoID, *res2.InsumoID)
	// 1 component + 1 mirror, no duplicates
	assert.Len(t, e.insumos.insumos, 2)
	assert.Len(t, e.historial.registros, 1)
}

func TestSincronizarDesactivaNuncaElimina(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa de Tomate", "1.50", "2", true)
	ctx := context.Background()

	res, err := e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	espejoID := *res.InsumoID

	p.EsTambienInsumo = false
	res, err = e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	assert.Equal(t, service.EspejoInactivo, res.Estado)
	assert.True(t, res.Escrito)

	espejo := e.insumos.buscar(espejoID)
	require.NotNil(t, espejo, "el espejo nunca se borra fisicamente")
	assert.False(t, espejo.Activo)

	// A second pass with the flag still off is a no-op
	res, err = e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	assert.Equal(t, service.EspejoInactivo, res.Estado)
	assert.False(t, res.Escrito)
}

func TestSincronizarReactivaEnLugarConRecalculo(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, componente := e.productoConReceta("Salsa de Tomate", "1.00", "2", true)
	ctx := context.Background()

	res, err := e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	espejoID := *res.InsumoID
	assert.Equal(t, "2.00", e.insumos.buscar(espejoID).CostoUnitario.StringFixed(2))

	// Deactivate the mirror, then the component cost drifts
	p.EsTambienInsumo = false
	_, err = e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	componente.CostoUnitario = dec("1.50")

	// Reactivation reuses the same row and recomputes the cost
	p.EsTambienInsumo = true
	res, err = e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)

	assert.Equal(t, service.EspejoActivo, res.Estado)
	assert.True(t, res.Escrito)
	assert.Equal(t, espejoID, *res.InsumoID)

	espejo := e.insumos.buscar(espejoID)
	assert.True(t, espejo.Activo)
	assert.Equal(t, "3.00", espejo.CostoUnitario.StringFixed(2))

	// Reactivation with a cost change is recorded with its own motivo
	ultimo := e.historial.registros[len(e.historial.registros)-1]
	assert.Equal(t, "reactivacion", ultimo.Motivo)
	assert.Equal(t, "2.00", ultimo.CostoAntes.StringFixed(2))
	assert.Equal(t, "3.00", ultimo.CostoDespues.StringFixed(2))
}

func TestSincronizarNombreDuplicadoEsAmbiguo(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa de Tomate", "1.50", "2", true)
	otro, _ := e.productoConReceta("Salsa de Tomate", "1.00", "1", true)
	_ = otro

	_, err := e.svc.SincronizarTx(context.Background(), nil, p, p.Nombre)

	var ambErr *service.EspejoAmbiguoError
	require.ErrorAs(t, err, &ambErr)
	assert.Equal(t, "Salsa de Tomate", ambErr.Nombre)
	// No partial writes
	assert.Len(t, e.insumos.insumos, 2)
	assert.Empty(t, e.historial.registros)
}

func TestSincronizarDosEspejosConMismoNombreEsAmbiguo(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa de Tomate", "1.50", "2", true)
	// Two pre-existing insumos share the mirror (nombre, categoria) pair
	e.insumos.agregar(model.Insumo{Nombre: "Salsa de Tomate", Categoria: model.CategoriaEspejo, Activo: true})
	e.insumos.agregar(model.Insumo{Nombre: "Salsa de Tomate", Categoria: model.CategoriaEspejo, Activo: false})

	_, err := e.svc.SincronizarTx(context.Background(), nil, p, p.Nombre)

	var ambErr *service.EspejoAmbiguoError
	require.ErrorAs(t, err, &ambErr)
}

func TestSincronizarSinRecetaUsaPrecioBase(t *testing.T) {
	e := nuevoEntornoEspejo()
	p := &model.Producto{
		ID:              uuid.New(),
		SKU:             "SKU-PAN",
		Nombre:          "Pan Artesanal",
		Categoria:       "Panaderia",
		PrecioBase:      dec("4.25"),
		EsTambienInsumo: true,
		Activo:          true,
	}
	_ = e.productos.CreateTx(nil, p)

	res, err := e.svc.SincronizarTx(context.Background(), nil, p, p.Nombre)
	require.NoError(t, err)

	espejo := e.insumos.buscar(*res.InsumoID)
	assert.Equal(t, "4.25", espejo.CostoUnitario.StringFixed(2))
}

func TestSincronizarSigueElRenombre(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa", "1.50", "2", true)
	ctx := context.Background()

	res, err := e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)
	espejoID := *res.InsumoID

	nombreAnterior := p.Nombre
	p.Nombre = "Salsa Roja"
	_ = e.productos.UpdateTx(nil, p)

	res, err = e.svc.SincronizarTx(ctx, nil, p, nombreAnterior)
	require.NoError(t, err)

	// Same mirror row, new name — no orphan left behind
	assert.Equal(t, espejoID, *res.InsumoID)
	assert.Equal(t, "Salsa Roja", e.insumos.buscar(espejoID).Nombre)
	assert.Len(t, e.insumos.insumos, 2)
}

func TestRecostearProductoInexistente(t *testing.T) {
	e := nuevoEntornoEspejo()
	_, err := e.svc.Recostear(context.Background(), uuid.New(), "recosteo")
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)
}

func TestRecostearIgnoraProductosSinEspejo(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, _ := e.productoConReceta("Salsa", "1.50", "2", false)

	escrito, err := e.svc.Recostear(context.Background(), p.ID, "recosteo")
	require.NoError(t, err)
	assert.False(t, escrito)
	assert.Len(t, e.insumos.insumos, 1)
}

func TestRecostearPorInsumoActualizaAfectados(t *testing.T) {
	e := nuevoEntornoEspejo()
	p, componente := e.productoConReceta("Salsa", "1.00", "2", true)
	ctx := context.Background()

	_, err := e.svc.SincronizarTx(ctx, nil, p, p.Nombre)
	require.NoError(t, err)

	componente.CostoUnitario = dec("2.00")
	cambiados, err := e.svc.RecostearPorInsumo(ctx, componente.ID, "recosteo")
	require.NoError(t, err)
	assert.Equal(t, 1, cambiados)

	espejos, _ := e.insumos.FindByNombreCategoria(ctx, "Salsa", model.CategoriaEspejo)
	require.Len(t, espejos, 1)
	assert.Equal(t, "4.00", espejos[0].CostoUnitario.StringFixed(2))

	// Unchanged costs are a no-op on the next pass
	cambiados, err = e.svc.RecostearPorInsumo(ctx, componente.ID, "recosteo")
	require.NoError(t, err)
	assert.Zero(t, cambiados)
}

func TestRecostearTodosRecorreTodosLosEspejos(t *testing.T) {
	e := nuevoEntornoEspejo()
	ctx := context.Background()
	p1, c1 := e.productoConReceta("Salsa", "1.00", "1", true)
	p2, _ := e.productoConReceta("Pure", "2.00", "1", true)

	_, err := e.svc.SincronizarTx(ctx, nil, p1, p1.Nombre)
	require.NoError(t, err)
	_, err = e.svc.SincronizarTx(ctx, nil, p2, p2.Nombre)
	require.NoError(t, err)

	c1.CostoUnitario = dec("5.00")
	cambiados, err := e.svc.RecostearTodos(ctx, "recosteo_nocturno")
	require.NoError(t, err)

	// Only the mirror whose component drifted gets rewritten
	assert.Equal(t, 1, cambiados)
}
