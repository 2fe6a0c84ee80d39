package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"saborpos/internal/dto"
	"saborpos/internal/model"
	"saborpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entornoInsumo struct {
	insumos   *stubInsumoRepo
	historial *stubHistorialRepo
	encolador *stubEncolador
	svc       service.InsumoService
}

func nuevoEntornoInsumo() *entornoInsumo {
	insumos := newStubInsumoRepo()
	historial := newStubHistorialRepo()
	encolador := newStubEncolador()
	cache := service.NewCacheCosteo(nil)
	return &entornoInsumo{
		insumos:   insumos,
		historial: historial,
		encolador: encolador,
		svc:       service.NewInsumoService(insumos, historial, encolador, cache),
	}
}

func TestCrearInsumo(t *testing.T) {
	e := nuevoEntornoInsumo()

	resp, err := e.svc.Crear(context.Background(), dto.CrearInsumoRequest{
		Nombre:        "Harina",
		Categoria:     "Materia Prima",
		CostoUnitario: dec("2.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Harina", resp.Nombre)
	assert.Equal(t, "unidad", resp.UnidadMedida, "unidad por defecto")
	assert.True(t, resp.Activo)
	assert.False(t, resp.EsTambienProducto)
}

func TestCrearInsumoCategoriaReservada(t *testing.T) {
	e := nuevoEntornoInsumo()

	_, err := e.svc.Crear(context.Background(), dto.CrearInsumoRequest{
		Nombre:    "Salsa",
		Categoria: model.CategoriaEspejo,
	})
	assert.ErrorIs(t, err, service.ErrCategoriaReservada)
	assert.Empty(t, e.insumos.insumos)
}

func TestCrearInsumoNombreDuplicadoActivo(t *testing.T) {
	e := nuevoEntornoInsumo()
	ctx := context.Background()
	_, err := e.svc.Crear(ctx, dto.CrearInsumoRequest{Nombre: "Harina", Categoria: "Materia Prima"})
	require.NoError(t, err)

	_, err = e.svc.Crear(ctx, dto.CrearInsumoRequest{Nombre: "Harina", Categoria: "Materia Prima"})
	assert.ErrorIs(t, err, service.ErrNombreDuplicado)

	// The same name in another category is fine
	_, err = e.svc.Crear(ctx, dto.CrearInsumoRequest{Nombre: "Harina", Categoria: "Importados"})
	assert.NoError(t, err)
}

func TestCrearInsumoNombreDuplicadoInactivoSePermite(t *testing.T) {
	e := nuevoEntornoInsumo()
	e.insumos.agregar(model.Insumo{Nombre: "Harina", Categoria: "Materia Prima", Activo: false})

	_, err := e.svc.Crear(context.Background(), dto.CrearInsumoRequest{
		Nombre: "Harina", Categoria: "Materia Prima",
	})
	assert.NoError(t, err)
}

func TestActualizarInsumoCambioDeCostoEncolaRecosteo(t *testing.T) {
	e := nuevoEntornoInsumo()
	i := e.insumos.agregar(model.Insumo{
		Nombre: "Harina", Categoria: "Materia Prima", CostoUnitario: dec("2.50"), Activo: true,
	})

	nuevoCosto := dec("3.00")
	resp, err := e.svc.Actualizar(context.Background(), i.ID, dto.ActualizarInsumoRequest{
		CostoUnitario: &nuevoCosto,
	})
	require.NoError(t, err)
	assert.Equal(t, "3.00", resp.CostoUnitario.StringFixed(2))

	require.Len(t, e.encolador.trabajos, 1)
	assert.Equal(t, "recosteo", e.encolador.trabajos[0].cola)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(e.encolador.trabajos[0].payload, &payload))
	assert.Equal(t, i.ID.String(), payload["insumo_id"])
	assert.Equal(t, "recosteo", payload["motivo"])
}

func TestActualizarInsumoSinCambioDeCostoNoEncola(t *testing.T) {
	e := nuevoEntornoInsumo()
	i := e.insumos.agregar(model.Insumo{
		Nombre: "Harina", Categoria: "Materia Prima", CostoUnitario: dec("2.50"), Activo: true,
	})

	nuevoNombre := "Harina 000"
	_, err := e.svc.Actualizar(context.Background(), i.ID, dto.ActualizarInsumoRequest{
		Nombre: &nuevoNombre,
	})
	require.NoError(t, err)
	assert.Empty(t, e.encolador.trabajos)
}

func TestActualizarInsumoEspejoEsRechazado(t *testing.T) {
	e := nuevoEntornoInsumo()
	i := e.insumos.agregar(model.Insumo{
		Nombre: "Salsa", Categoria: model.CategoriaEspejo, EsTambienProducto: true, Activo: true,
	})

	nuevoCosto := dec("9.99")
	_, err := e.svc.Actualizar(context.Background(), i.ID, dto.ActualizarInsumoRequest{
		CostoUnitario: &nuevoCosto,
	})
	assert.ErrorIs(t, err, service.ErrInsumoEspejo)
}

func TestDesactivarInsumoEspejoEsRechazado(t *testing.T) {
	e := nuevoEntornoInsumo()
	i := e.insumos.agregar(model.Insumo{
		Nombre: "Salsa", Categoria: model.CategoriaEspejo, EsTambienProducto: true, Activo: true,
	})

	err := e.svc.Desactivar(context.Background(), i.ID)
	assert.ErrorIs(t, err, service.ErrInsumoEspejo)
	assert.True(t, e.insumos.buscar(i.ID).Activo)
}

func TestReactivarInsumoEncolaRecosteo(t *testing.T) {
	e := nuevoEntornoInsumo()
	i := e.insumos.agregar(model.Insumo{
		Nombre: "Harina", Categoria: "Materia Prima", CostoUnitario: dec("2.50"), Activo: false,
	})

	require.NoError(t, e.svc.Reactivar(context.Background(), i.ID))

	assert.True(t, e.insumos.buscar(i.ID).Activo)
	require.Len(t, e.encolador.trabajos, 1)
	assert.Equal(t, "recosteo", e.encolador.trabajos[0].cola)
}

func TestListarHistorialDeInsumoInexistente(t *testing.T) {
	e := nuevoEntornoInsumo()
	_, err := e.svc.ListarHistorial(context.Background(), uuid.New(), 1, 20)
	assert.ErrorIs(t, err, service.ErrInsumoNoEncontrado)
}
