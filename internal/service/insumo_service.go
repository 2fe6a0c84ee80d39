package service

import (
	"context"
	"time"

	"saborpos/internal/dto"
	"saborpos/internal/model"
	"saborpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InsumoService handles insumo CRUD. Mirror insumos (EsTambienProducto) are
// read-only here: their lifecycle belongs to the synchronizer, reachable only
// through product updates.
type InsumoService interface {
	Crear(ctx context.Context, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error)
	Listar(ctx context.Context, filter dto.InsumoFilter) (*dto.InsumoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarInsumoRequest) (*dto.InsumoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ListarHistorial(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialCostoListResponse, error)
}

type insumoService struct {
	insumos   repository.InsumoRepository
	historial repository.HistorialCostoRepository
	encolador Encolador
	cache     *CacheCosteo
}

func NewInsumoService(
	insumos repository.InsumoRepository,
	historial repository.HistorialCostoRepository,
	encolador Encolador,
	cache *CacheCosteo,
) InsumoService {
	return &insumoService{insumos: insumos, historial: historial, encolador: encolador, cache: cache}
}

func (s *insumoService) Crear(ctx context.Context, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error) {
	if req.Categoria == model.CategoriaEspejo {
		return nil, ErrCategoriaReservada
	}

	existentes, err := s.insumos.FindByNombreCategoria(ctx, req.Nombre, req.Categoria)
	if err != nil {
		return nil, &PersistenciaError{Op: "verificar nombre de insumo", Err: err}
	}
	for _, e := range existentes {
		if e.Activo {
			return nil, ErrNombreDuplicado
		}
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}
	i := &model.Insumo{
		ID:            uuid.New(),
		Nombre:        req.Nombre,
		Categoria:     req.Categoria,
		UnidadMedida:  unidad,
		CostoUnitario: req.CostoUnitario,
		Activo:        true,
	}
	if err := s.insumos.Create(ctx, i); err != nil {
		return nil, &PersistenciaError{Op: "crear insumo", Err: err}
	}

	log.Info().Str("insumo_id", i.ID.String()).Str("nombre", i.Nombre).Msg("insumo creado")
	return toInsumoResponse(i), nil
}

func (s *insumoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error) {
	i, err := s.insumos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrInsumoNoEncontrado
	}
	return toInsumoResponse(i), nil
}

func (s *insumoService) Listar(ctx context.Context, filter dto.InsumoFilter) (*dto.InsumoListResponse, error) {
	insumos, total, err := s.insumos.List(ctx, filter)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar insumos", Err: err}
	}
	resp := &dto.InsumoListResponse{
		Data:  make([]dto.InsumoResponse, 0, len(insumos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for idx := range insumos {
		resp.Data = append(resp.Data, *toInsumoResponse(&insumos[idx]))
	}
	return resp, nil
}

func (s *insumoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarInsumoRequest) (*dto.InsumoResponse, error) {
	i, err := s.insumos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrInsumoNoEncontrado
	}
	if i.EsTambienProducto {
		return nil, ErrInsumoEspejo
	}
	if req.Categoria != nil && *req.Categoria == model.CategoriaEspejo {
		return nil, ErrCategoriaReservada
	}

	costoAnterior := i.CostoUnitario
	if req.Nombre != nil {
		i.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		i.Categoria = *req.Categoria
	}
	if req.UnidadMedida != nil {
		i.UnidadMedida = *req.UnidadMedida
	}
	if req.CostoUnitario != nil {
		i.CostoUnitario = *req.CostoUnitario
	}

	if err := s.insumos.Update(ctx, i); err != nil {
		return nil, &PersistenciaError{Op: "actualizar insumo", Err: err}
	}

	if !costoAnterior.Equal(i.CostoUnitario) {
		// Cached breakdowns of any product using this insumo are now stale.
		s.cache.InvalidarTodo(ctx)
		s.encolarRecosteo(ctx, i.ID)
	}

	log.Info().Str("insumo_id", i.ID.String()).Msg("insumo actualizado")
	return toInsumoResponse(i), nil
}

func (s *insumoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	i, err := s.insumos.FindByID(ctx, id)
	if err != nil {
		return ErrInsumoNoEncontrado
	}
	if i.EsTambienProducto {
		return ErrInsumoEspejo
	}
	if err := s.insumos.SoftDelete(ctx, id); err != nil {
		return &PersistenciaError{Op: "desactivar insumo", Err: err}
	}
	return nil
}

func (s *insumoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	i, err := s.insumos.FindByID(ctx, id)
	if err != nil {
		return ErrInsumoNoEncontrado
	}
	if i.EsTambienProducto {
		return ErrInsumoEspejo
	}
	if err := s.insumos.Reactivar(ctx, id); err != nil {
		return &PersistenciaError{Op: "reactivar insumo", Err: err}
	}
	s.cache.InvalidarTodo(ctx)
	s.encolarRecosteo(ctx, id)
	return nil
}

func (s *insumoService) ListarHistorial(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialCostoListResponse, error) {
	if _, err := s.insumos.FindByID(ctx, id); err != nil {
		return nil, ErrInsumoNoEncontrado
	}
	rows, total, err := s.historial.ListByInsumo(ctx, id, page, limit)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar historial de costos", Err: err}
	}

	resp := &dto.HistorialCostoListResponse{
		Data:  make([]dto.HistorialCostoItem, 0, len(rows)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, h := range rows {
		item := dto.HistorialCostoItem{
			ID:           h.ID.String(),
			InsumoID:     h.InsumoID.String(),
			CostoAntes:   h.CostoAntes,
			CostoDespues: h.CostoDespues,
			Motivo:       h.Motivo,
			CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		}
		if h.ProductoID != nil {
			pid := h.ProductoID.String()
			item.ProductoID = &pid
		}
		resp.Data = append(resp.Data, item)
	}
	return resp, nil
}

// encolarRecosteo schedules an async recost of every mirror whose recipe uses
// the insumo. Failures only log: the nightly pass catches anything missed.
func (s *insumoService) encolarRecosteo(ctx context.Context, insumoID uuid.UUID) {
	if s.encolador == nil {
		return
	}
	payload := map[string]string{"insumo_id": insumoID.String(), "motivo": "recosteo"}
	if err := s.encolador.EnqueueRecosteo(ctx, payload); err != nil {
		log.Error().Err(err).Str("insumo_id", insumoID.String()).Msg("no se pudo encolar recosteo")
	}
}

func toInsumoResponse(i *model.Insumo) *dto.InsumoResponse {
	return &dto.InsumoResponse{
		ID:                i.ID.String(),
		Nombre:            i.Nombre,
		Categoria:         i.Categoria,
		UnidadMedida:      i.UnidadMedida,
		CostoUnitario:     i.CostoUnitario,
		Activo:            i.Activo,
		EsTambienProducto: i.EsTambienProducto,
	}
}
