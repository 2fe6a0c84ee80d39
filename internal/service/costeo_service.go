package service

import (
	"context"
	"encoding/json"

	"saborpos/internal/costing"
	"saborpos/internal/dto"
	"saborpos/internal/model"
	"saborpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GeneradorPDF renders a cost report to a file and returns its path.
// Implemented by the fpdf-backed generator in infra.
type GeneradorPDF interface {
	GenerarReporteCostos(desgloses []dto.DesgloseResponse) (string, error)
}

// CosteoService computes price breakdowns on demand. Nothing here is
// persisted: a breakdown always reflects current insumo costs and the cost
// type configuration at the moment of the call. Single-product reads go
// through the redis cache; batch reads always hit the database so the whole
// report shares one cost-type snapshot.
type CosteoService interface {
	ObtenerDesglose(ctx context.Context, productoID uuid.UUID) (*dto.DesgloseResponse, error)
	ListarDesgloses(ctx context.Context) (*dto.ReporteCostosResponse, error)
	GenerarReporte(ctx context.Context) (string, error)
	EnviarReporte(ctx context.Context, req dto.EnviarReporteRequest) error
}

type costeoService struct {
	productos repository.ProductoRepository
	insumos   repository.InsumoRepository
	tipos     repository.TipoCostoRepository
	cache     *CacheCosteo
	pdf       GeneradorPDF
	encolador Encolador
}

func NewCosteoService(
	productos repository.ProductoRepository,
	insumos repository.InsumoRepository,
	tipos repository.TipoCostoRepository,
	cache *CacheCosteo,
	pdf GeneradorPDF,
	encolador Encolador,
) CosteoService {
	return &costeoService{
		productos: productos,
		insumos:   insumos,
		tipos:     tipos,
		cache:     cache,
		pdf:       pdf,
		encolador: encolador,
	}
}

func (s *costeoService) ObtenerDesglose(ctx context.Context, productoID uuid.UUID) (*dto.DesgloseResponse, error) {
	if payload, ok := s.cache.ObtenerDesglose(ctx, productoID); ok {
		var resp dto.DesgloseResponse
		if err := json.Unmarshal(payload, &resp); err == nil {
			return &resp, nil
		}
		// Corrupt entry: fall through and recompute.
		s.cache.InvalidarProducto(ctx, productoID)
	}

	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	tipos, err := s.tipos.List(ctx)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar tipos de costo", Err: err}
	}

	resp, err := s.calcular(ctx, p, tipos)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(resp); err == nil {
		s.cache.GuardarDesglose(ctx, productoID, payload)
	}
	return resp, nil
}

// ListarDesgloses prices every active product against a single cost-type
// snapshot, so all rows of the report are mutually consistent.
func (s *costeoService) ListarDesgloses(ctx context.Context) (*dto.ReporteCostosResponse, error) {
	productos, err := s.productos.ListActivos(ctx)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar productos activos", Err: err}
	}
	tipos, err := s.tipos.List(ctx)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar tipos de costo", Err: err}
	}

	resp := &dto.ReporteCostosResponse{Data: make([]dto.DesgloseResponse, 0, len(productos))}
	for i := range productos {
		d, err := s.calcular(ctx, &productos[i], tipos)
		if err != nil {
			return nil, err
		}
		resp.Data = append(resp.Data, *d)
	}
	resp.Total = len(resp.Data)
	return resp, nil
}

func (s *costeoService) calcular(ctx context.Context, p *model.Producto, tipos []model.TipoCosto) (*dto.DesgloseResponse, error) {
	costoBase, err := resolverCostoBase(ctx, s.insumos, p)
	if err != nil {
		return nil, err
	}
	d, err := costing.CalcularDesglose(costoBase, p.PorcentajeGanancia, tiposACosting(tipos))
	if err != nil {
		return nil, err
	}
	return &dto.DesgloseResponse{
		ProductoID:         p.ID.String(),
		Nombre:             p.Nombre,
		SKU:                p.SKU,
		CostoBase:          d.CostoBase,
		PorcentajeGanancia: d.PorcentajeGanancia,
		Ganancia:           d.Ganancia,
		Subtotal:           d.Subtotal,
		Costos:             d.Costos,
		PrecioFinal:        d.PrecioFinal,
	}, nil
}

func (s *costeoService) GenerarReporte(ctx context.Context) (string, error) {
	reporte, err := s.ListarDesgloses(ctx)
	if err != nil {
		return "", err
	}
	ruta, err := s.pdf.GenerarReporteCostos(reporte.Data)
	if err != nil {
		return "", &PersistenciaError{Op: "generar reporte PDF", Err: err}
	}
	log.Info().Str("ruta", ruta).Int("productos", reporte.Total).Msg("reporte de costos generado")
	return ruta, nil
}

func (s *costeoService) EnviarReporte(ctx context.Context, req dto.EnviarReporteRequest) error {
	ruta, err := s.GenerarReporte(ctx)
	if err != nil {
		return err
	}
	if s.encolador == nil {
		return &PersistenciaError{Op: "encolar envio de reporte", Err: ErrColaNoDisponible}
	}
	payload := map[string]string{
		"email":   req.Email,
		"asunto":  req.Asunto,
		"adjunto": ruta,
	}
	if err := s.encolador.EnqueueEmail(ctx, payload); err != nil {
		return &PersistenciaError{Op: "encolar envio de reporte", Err: err}
	}
	return nil
}
