package service

import (
	"context"

	"saborpos/internal/costing"
	"saborpos/internal/model"
	"saborpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstadoEspejo is the lifecycle state of a product's mirror insumo.
type EstadoEspejo string

const (
	SinEspejo      EstadoEspejo = "sin_espejo"
	EspejoActivo   EstadoEspejo = "activo"
	EspejoInactivo EstadoEspejo = "inactivo"
)

// ResultadoSincronizacion describes the mirror after a synchronization pass.
// Escrito=false means the pass was a no-op (already in the target state).
type ResultadoSincronizacion struct {
	InsumoID *uuid.UUID
	Estado   EstadoEspejo
	Escrito  bool
}

// EspejoService keeps the mirror Insumo of every es_tambien_insumo product in
// sync: creation on first activation, unit-cost recomputation on recipe
// changes, logical deactivation, and in-place reactivation. It exclusively
// owns mirror rows — no other component creates insumos in CategoriaEspejo.
type EspejoService interface {
	// SincronizarTx applies one mirror transition inside the caller's
	// transaction. The producto must carry its (already updated) recipe;
	// nombreAnterior is the product name before this update, used to locate
	// an existing mirror across renames.
	SincronizarTx(ctx context.Context, tx *gorm.DB, p *model.Producto, nombreAnterior string) (*ResultadoSincronizacion, error)
	// Recostear recomputes the mirror unit cost of one product from current
	// component costs. Returns true when the mirror was actually rewritten.
	Recostear(ctx context.Context, productoID uuid.UUID, motivo string) (bool, error)
	// RecostearPorInsumo recomputes every active mirror whose recipe
	// references the given insumo. Returns how many mirrors changed.
	RecostearPorInsumo(ctx context.Context, insumoID uuid.UUID, motivo string) (int, error)
	// RecostearTodos recomputes every active mirror (nightly pass).
	RecostearTodos(ctx context.Context, motivo string) (int, error)
}

type espejoService struct {
	productos repository.ProductoRepository
	insumos   repository.InsumoRepository
	historial repository.HistorialCostoRepository
}

func NewEspejoService(
	productos repository.ProductoRepository,
	insumos repository.InsumoRepository,
	historial repository.HistorialCostoRepository,
) EspejoService {
	return &espejoService{productos: productos, insumos: insumos, historial: historial}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// resolverCostoBase derives a product's base cost: from its recipe against
// current insumo costs when it has one, from PrecioBase otherwise. Inactive
// component insumos are allowed — historical recipes may reference retired
// insumos.
func resolverCostoBase(ctx context.Context, insumos repository.InsumoRepository, p *model.Producto) (decimal.Decimal, error) {
	if len(p.Receta) == 0 {
		return p.PrecioBase, nil
	}

	componentes := make([]costing.Componente, 0, len(p.Receta))
	ids := make([]uuid.UUID, 0, len(p.Receta))
	for _, item := range p.Receta {
		componentes = append(componentes, costing.Componente{InsumoID: item.InsumoID, Cantidad: item.Cantidad})
		ids = append(ids, item.InsumoID)
	}

	filas, err := insumos.FindByIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, &PersistenciaError{Op: "buscar insumos de receta", Err: err}
	}
	catalogo := make(costing.CatalogoMapa, len(filas))
	for _, f := range filas {
		catalogo[f.ID] = costing.CostoInsumo{CostoUnitario: f.CostoUnitario, Activo: f.Activo}
	}

	total, _, err := costing.ResolverCostoReceta(componentes, catalogo, false)
	return total, err
}

func (s *espejoService) SincronizarTx(ctx context.Context, tx *gorm.DB, p *model.Producto, nombreAnterior string) (*ResultadoSincronizacion, error) {
	return s.sincronizar(ctx, tx, p, nombreAnterior, "sincronizacion")
}

func (s *espejoService) sincronizar(ctx context.Context, tx *gorm.DB, p *model.Producto, nombreAnterior, motivo string) (*ResultadoSincronizacion, error) {
	candidatos, err := s.insumos.FindByNombreCategoria(ctx, nombreAnterior, model.CategoriaEspejo)
	if err != nil {
		return nil, &PersistenciaError{Op: "buscar espejo", Err: err}
	}
	if len(candidatos) > 1 {
		return nil, &EspejoAmbiguoError{Nombre: nombreAnterior}
	}

	var espejo *model.Insumo
	if len(candidatos) == 1 {
		espejo = &candidatos[0]
	}

	if !p.EsTambienInsumo {
		// Target: no active mirror. Existing mirrors are deactivated, never
		// deleted — past recipes may reference them.
		if espejo == nil {
			return &ResultadoSincronizacion{Estado: SinEspejo}, nil
		}
		if !espejo.Activo {
			id := espejo.ID
			return &ResultadoSincronizacion{InsumoID: &id, Estado: EspejoInactivo}, nil
		}
		espejo.Activo = false
		if err := s.insumos.UpdateTx(tx, espejo); err != nil {
			return nil, &PersistenciaError{Op: "desactivar espejo", Err: err}
		}
		id := espejo.ID
		return &ResultadoSincronizacion{InsumoID: &id, Estado: EspejoInactivo, Escrito: true}, nil
	}

	// Target: active mirror. Duplicate product names make the target
	// ambiguous; resolution policy belongs to the caller.
	otros, err := s.productos.CountEspejosConNombre(ctx, p.Nombre, p.ID)
	if err != nil {
		return nil, &PersistenciaError{Op: "verificar nombre espejo", Err: err}
	}
	if otros > 0 {
		return nil, &EspejoAmbiguoError{Nombre: p.Nombre}
	}

	// Costs are recomputed on every transition rather than cached across
	// activation cycles: component costs may have drifted while inactive.
	costo, err := resolverCostoBase(ctx, s.insumos, p)
	if err != nil {
		return nil, err
	}

	if espejo == nil {
		nuevo := &model.Insumo{
			ID:                uuid.New(),
			Nombre:            p.Nombre,
			Categoria:         model.CategoriaEspejo,
			UnidadMedida:      "unidad",
			CostoUnitario:     costo,
			Activo:            true,
			EsTambienProducto: true,
		}
		if err := s.insumos.CreateTx(tx, nuevo); err != nil {
			return nil, &PersistenciaError{Op: "crear espejo", Err: err}
		}
		if err := s.registrarCambio(tx, nuevo.ID, p.ID, decimal.Zero, costo, motivo); err != nil {
			return nil, err
		}
		id := nuevo.ID
		return &ResultadoSincronizacion{InsumoID: &id, Estado: EspejoActivo, Escrito: true}, nil
	}

	reactivacion := !espejo.Activo
	sinCambios := espejo.Activo &&
		espejo.Nombre == p.Nombre &&
		espejo.CostoUnitario.Equal(costo) &&
		espejo.EsTambienProducto
	if sinCambios {
		id := espejo.ID
		return &ResultadoSincronizacion{InsumoID: &id, Estado: EspejoActivo}, nil
	}

	costoAntes := espejo.CostoUnitario
	espejo.Nombre = p.Nombre
	espejo.CostoUnitario = costo
	espejo.Activo = true
	espejo.EsTambienProducto = true
	if err := s.insumos.UpdateTx(tx, espejo); err != nil {
		return nil, &PersistenciaError{Op: "actualizar espejo", Err: err}
	}

	if !costoAntes.Equal(costo) {
		m := motivo
		if reactivacion {
			m = "reactivacion"
		}
		if err := s.registrarCambio(tx, espejo.ID, p.ID, costoAntes, costo, m); err != nil {
			return nil, err
		}
	}

	id := espejo.ID
	return &ResultadoSincronizacion{InsumoID: &id, Estado: EspejoActivo, Escrito: true}, nil
}

func (s *espejoService) registrarCambio(tx *gorm.DB, insumoID, productoID uuid.UUID, antes, despues decimal.Decimal, motivo string) error {
	pid := productoID
	h := &model.HistorialCosto{
		InsumoID:     insumoID,
		ProductoID:   &pid,
		CostoAntes:   antes,
		CostoDespues: despues,
		Motivo:       motivo,
	}
	if err := s.historial.CreateTx(tx, h); err != nil {
		return &PersistenciaError{Op: "registrar historial de costo", Err: err}
	}
	return nil
}

func (s *espejoService) Recostear(ctx context.Context, productoID uuid.UUID, motivo string) (bool, error) {
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return false, ErrProductoNoEncontrado
	}
	if !p.Activo || !p.EsTambienInsumo {
		return false, nil
	}

	var resultado *ResultadoSincronizacion
	err = runTx(ctx, s.insumos.DB(), func(tx *gorm.DB) error {
		res, err := s.sincronizar(ctx, tx, p, p.Nombre, motivo)
		resultado = res
		return err
	})
	if err != nil {
		return false, err
	}
	return resultado.Escrito, nil
}

func (s *espejoService) RecostearPorInsumo(ctx context.Context, insumoID uuid.UUID, motivo string) (int, error) {
	afectados, err := s.productos.ListConInsumoEnReceta(ctx, insumoID)
	if err != nil {
		return 0, &PersistenciaError{Op: "buscar productos afectados", Err: err}
	}

	cambiados := 0
	for _, p := range afectados {
		if !p.EsTambienInsumo {
			continue
		}
		escrito, err := s.Recostear(ctx, p.ID, motivo)
		if err != nil {
			log.Error().Err(err).Str("producto_id", p.ID.String()).Msg("recosteo: fallo al recostear espejo")
			continue
		}
		if escrito {
			cambiados++
		}
	}
	return cambiados, nil
}

func (s *espejoService) RecostearTodos(ctx context.Context, motivo string) (int, error) {
	espejos, err := s.productos.ListEspejos(ctx)
	if err != nil {
		return 0, &PersistenciaError{Op: "listar espejos", Err: err}
	}

	cambiados := 0
	for _, p := range espejos {
		escrito, err := s.Recostear(ctx, p.ID, motivo)
		if err != nil {
			log.Error().Err(err).Str("producto_id", p.ID.String()).Msg("recosteo: fallo en pasada completa")
			continue
		}
		if escrito {
			cambiados++
		}
	}
	return cambiados, nil
}
