package service

import (
	"context"
	"errors"

	"saborpos/internal/costing"
	"saborpos/internal/dto"
	"saborpos/internal/model"
	"saborpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService handles product CRUD plus recipe management. Every write
// that can change the mirror state or the derived base cost runs the
// synchronizer inside the same transaction, so product and mirror never
// diverge.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	productos repository.ProductoRepository
	insumos   repository.InsumoRepository
	tipos     repository.TipoCostoRepository
	espejo    EspejoService
	cache     *CacheCosteo
}

func NewProductoService(
	productos repository.ProductoRepository,
	insumos repository.InsumoRepository,
	tipos repository.TipoCostoRepository,
	espejo EspejoService,
	cache *CacheCosteo,
) ProductoService {
	return &productoService{
		productos: productos,
		insumos:   insumos,
		tipos:     tipos,
		espejo:    espejo,
		cache:     cache,
	}
}

// conReintento runs fn once, retrying a single time when the failure is a
// transient concurrency conflict (deadlock, serialization failure).
func conReintento(fn func() error) error {
	err := fn()
	if err != nil && esErrorTransitorio(err) {
		log.Warn().Err(err).Msg("conflicto transitorio de persistencia, reintentando una vez")
		err = fn()
	}
	return err
}

// tiposACosting adapts persisted cost types to the pure calculator's input.
func tiposACosting(tipos []model.TipoCosto) []costing.TipoCosto {
	out := make([]costing.TipoCosto, 0, len(tipos))
	for _, t := range tipos {
		out = append(out, costing.TipoCosto{
			ID:          t.ID,
			Nombre:      t.Nombre,
			Porcentaje:  t.Porcentaje,
			Obligatorio: t.Obligatorio,
			Prioridad:   t.Prioridad,
			Activo:      t.Activo,
		})
	}
	return out
}

// calcularPrecioFinal derives the sale price snapshot stored on the product.
// The authoritative breakdown is always recomputed on demand by CosteoService;
// this snapshot exists for listings and reports.
func (s *productoService) calcularPrecioFinal(ctx context.Context, costoBase, porcentajeGanancia decimal.Decimal) (decimal.Decimal, error) {
	tipos, err := s.tipos.List(ctx)
	if err != nil {
		return decimal.Zero, &PersistenciaError{Op: "listar tipos de costo", Err: err}
	}
	d, err := costing.CalcularDesglose(costoBase, porcentajeGanancia, tiposACosting(tipos))
	if err != nil {
		return decimal.Zero, err
	}
	return d.PrecioFinal, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	existente, err := s.productos.FindBySKU(ctx, req.SKU)
	if err == nil && existente != nil && existente.ID != uuid.Nil {
		return nil, ErrSKUDuplicado
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenciaError{Op: "verificar SKU", Err: err}
	}

	items, err := aRecetaItems(req.Receta)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		ID:                 uuid.New(),
		SKU:                req.SKU,
		Nombre:             req.Nombre,
		Categoria:          req.Categoria,
		PrecioBase:         req.PrecioBase,
		PorcentajeGanancia: req.PorcentajeGanancia,
		StockActual:        req.StockActual,
		EsTambienInsumo:    req.EsTambienInsumo,
		Activo:             true,
		Receta:             items,
	}

	var resSync *ResultadoSincronizacion
	err = conReintento(func() error {
		resSync = nil
		return runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
			costoBase, err := resolverCostoBase(ctx, s.insumos, p)
			if err != nil {
				return err
			}
			precioFinal, err := s.calcularPrecioFinal(ctx, costoBase, p.PorcentajeGanancia)
			if err != nil {
				return err
			}
			p.PrecioFinal = precioFinal

			if err := s.productos.CreateTx(tx, p); err != nil {
				return &PersistenciaError{Op: "crear producto", Err: err}
			}
			resSync, err = s.espejo.SincronizarTx(ctx, tx, p, p.Nombre)
			return err
		})
	})
	if err != nil {
		return nil, envolverError("crear producto", err)
	}

	log.Info().
		Str("producto_id", p.ID.String()).
		Str("sku", p.SKU).
		Str("estado_espejo", string(resSync.Estado)).
		Msg("producto creado")
	return toProductoResponse(p, resSync), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	return toProductoResponse(p, nil), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.productos.List(ctx, filter)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar productos", Err: err}
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *toProductoResponse(&productos[i], nil))
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	nombreAnterior := p.Nombre

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.PrecioBase != nil {
		p.PrecioBase = *req.PrecioBase
	}
	if req.PorcentajeGanancia != nil {
		p.PorcentajeGanancia = *req.PorcentajeGanancia
	}
	if req.StockActual != nil {
		p.StockActual = *req.StockActual
	}
	if req.EsTambienInsumo != nil {
		p.EsTambienInsumo = *req.EsTambienInsumo
	}

	var nuevaReceta []model.RecetaItem
	if req.Receta != nil {
		nuevaReceta, err = aRecetaItems(*req.Receta)
		if err != nil {
			return nil, err
		}
	}

	var resSync *ResultadoSincronizacion
	err = conReintento(func() error {
		resSync = nil
		return runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
			if req.Receta != nil {
				if err := s.productos.ReplaceRecetaTx(tx, p.ID, nuevaReceta); err != nil {
					return &PersistenciaError{Op: "reemplazar receta", Err: err}
				}
				p.Receta = nuevaReceta
			}

			costoBase, err := resolverCostoBase(ctx, s.insumos, p)
			if err != nil {
				return err
			}
			precioFinal, err := s.calcularPrecioFinal(ctx, costoBase, p.PorcentajeGanancia)
			if err != nil {
				return err
			}
			p.PrecioFinal = precioFinal

			// Sync before persisting the product: if the mirror transition
			// fails, the es_tambien_insumo flag change must not survive.
			resSync, err = s.espejo.SincronizarTx(ctx, tx, p, nombreAnterior)
			if err != nil {
				return err
			}
			if err := s.productos.UpdateTx(tx, p); err != nil {
				return &PersistenciaError{Op: "actualizar producto", Err: err}
			}
			return nil
		})
	})
	if err != nil {
		return nil, envolverError("actualizar producto", err)
	}

	s.cache.InvalidarProducto(ctx, p.ID)
	log.Info().
		Str("producto_id", p.ID.String()).
		Str("estado_espejo", string(resSync.Estado)).
		Msg("producto actualizado")
	return toProductoResponse(p, resSync), nil
}

// Desactivar hides the product from sale. The mirror insumo is left as-is:
// other recipes may still consume it at its last known cost.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.productos.SoftDelete(ctx, id); err != nil {
		return &PersistenciaError{Op: "desactivar producto", Err: err}
	}
	s.cache.InvalidarProducto(ctx, id)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.productos.Reactivar(ctx, id); err != nil {
		return &PersistenciaError{Op: "reactivar producto", Err: err}
	}
	// Mirror costs may have drifted while the product was inactive.
	if _, err := s.espejo.Recostear(ctx, id, "reactivacion"); err != nil {
		return err
	}
	s.cache.InvalidarProducto(ctx, id)
	return nil
}

func aRecetaItems(reqs []dto.RecetaItemRequest) ([]model.RecetaItem, error) {
	items := make([]model.RecetaItem, 0, len(reqs))
	for idx, r := range reqs {
		insumoID, err := uuid.Parse(r.InsumoID)
		if err != nil {
			return nil, ErrInsumoNoEncontrado
		}
		items = append(items, model.RecetaItem{
			InsumoID: insumoID,
			Cantidad: r.Cantidad,
			Orden:    idx,
		})
	}
	return items, nil
}

// envolverError passes domain errors through untouched and wraps anything
// else as a persistence failure.
func envolverError(op string, err error) error {
	if err == nil || esErrorDominio(err) {
		return err
	}
	var pErr *PersistenciaError
	if errors.As(err, &pErr) {
		return err
	}
	return &PersistenciaError{Op: op, Err: err}
}

func toProductoResponse(p *model.Producto, res *ResultadoSincronizacion) *dto.ProductoResponse {
	receta := make([]dto.RecetaItemResponse, 0, len(p.Receta))
	for _, item := range p.Receta {
		r := dto.RecetaItemResponse{
			InsumoID: item.InsumoID.String(),
			Cantidad: item.Cantidad,
			Orden:    item.Orden,
		}
		if item.Insumo != nil {
			r.InsumoNombre = item.Insumo.Nombre
		}
		receta = append(receta, r)
	}

	resp := &dto.ProductoResponse{
		ID:                 p.ID.String(),
		SKU:                p.SKU,
		Nombre:             p.Nombre,
		Categoria:          p.Categoria,
		PrecioBase:         p.PrecioBase,
		PorcentajeGanancia: p.PorcentajeGanancia,
		PrecioFinal:        p.PrecioFinal,
		StockActual:        p.StockActual,
		EsTambienInsumo:    p.EsTambienInsumo,
		Activo:             p.Activo,
		Receta:             receta,
	}
	if res != nil {
		resp.EstadoEspejo = string(res.Estado)
		if res.InsumoID != nil {
			id := res.InsumoID.String()
			resp.EspejoInsumoID = &id
		}
	}
	return resp
}
