package service

import (
	"context"
	"errors"

	"saborpos/internal/dto"
	"saborpos/internal/model"
	"saborpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TipoCostoService manages the cost-type configuration. Any write invalidates
// every cached breakdown: a percentage or priority change reprices the whole
// catalog.
type TipoCostoService interface {
	Crear(ctx context.Context, req dto.CrearTipoCostoRequest) (*dto.TipoCostoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TipoCostoResponse, error)
	Listar(ctx context.Context) ([]dto.TipoCostoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoCostoRequest) (*dto.TipoCostoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type tipoCostoService struct {
	tipos repository.TipoCostoRepository
	cache *CacheCosteo
}

func NewTipoCostoService(tipos repository.TipoCostoRepository, cache *CacheCosteo) TipoCostoService {
	return &tipoCostoService{tipos: tipos, cache: cache}
}

func (s *tipoCostoService) Crear(ctx context.Context, req dto.CrearTipoCostoRequest) (*dto.TipoCostoResponse, error) {
	existente, err := s.tipos.FindByNombre(ctx, req.Nombre)
	if err == nil && existente != nil && existente.ID != uuid.Nil {
		return nil, ErrNombreDuplicado
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenciaError{Op: "verificar nombre de tipo de costo", Err: err}
	}

	t := &model.TipoCosto{
		ID:          uuid.New(),
		Nombre:      req.Nombre,
		Porcentaje:  req.Porcentaje,
		Obligatorio: req.Obligatorio,
		Prioridad:   req.Prioridad,
		Activo:      true,
	}
	if err := s.tipos.Create(ctx, t); err != nil {
		return nil, &PersistenciaError{Op: "crear tipo de costo", Err: err}
	}

	s.cache.InvalidarTodo(ctx)
	log.Info().Str("tipo_costo_id", t.ID.String()).Str("nombre", t.Nombre).Msg("tipo de costo creado")
	return toTipoCostoResponse(t), nil
}

func (s *tipoCostoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TipoCostoResponse, error) {
	t, err := s.tipos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTipoCostoNoEncontrado
	}
	return toTipoCostoResponse(t), nil
}

func (s *tipoCostoService) Listar(ctx context.Context) ([]dto.TipoCostoResponse, error) {
	tipos, err := s.tipos.List(ctx)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar tipos de costo", Err: err}
	}
	out := make([]dto.TipoCostoResponse, 0, len(tipos))
	for i := range tipos {
		out = append(out, *toTipoCostoResponse(&tipos[i]))
	}
	return out, nil
}

func (s *tipoCostoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoCostoRequest) (*dto.TipoCostoResponse, error) {
	t, err := s.tipos.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTipoCostoNoEncontrado
	}

	if req.Nombre != nil {
		t.Nombre = *req.Nombre
	}
	if req.Porcentaje != nil {
		t.Porcentaje = *req.Porcentaje
	}
	if req.Obligatorio != nil {
		t.Obligatorio = *req.Obligatorio
	}
	if req.Prioridad != nil {
		t.Prioridad = *req.Prioridad
	}
	if req.Activo != nil {
		t.Activo = *req.Activo
	}

	if err := s.tipos.Update(ctx, t); err != nil {
		return nil, &PersistenciaError{Op: "actualizar tipo de costo", Err: err}
	}

	s.cache.InvalidarTodo(ctx)
	log.Info().Str("tipo_costo_id", t.ID.String()).Msg("tipo de costo actualizado")
	return toTipoCostoResponse(t), nil
}

func (s *tipoCostoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tipos.FindByID(ctx, id); err != nil {
		return ErrTipoCostoNoEncontrado
	}
	if err := s.tipos.SoftDelete(ctx, id); err != nil {
		return &PersistenciaError{Op: "desactivar tipo de costo", Err: err}
	}
	s.cache.InvalidarTodo(ctx)
	return nil
}

func (s *tipoCostoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tipos.FindByID(ctx, id); err != nil {
		return ErrTipoCostoNoEncontrado
	}
	if err := s.tipos.Reactivar(ctx, id); err != nil {
		return &PersistenciaError{Op: "reactivar tipo de costo", Err: err}
	}
	s.cache.InvalidarTodo(ctx)
	return nil
}

func toTipoCostoResponse(t *model.TipoCosto) *dto.TipoCostoResponse {
	return &dto.TipoCostoResponse{
		ID:          t.ID.String(),
		Nombre:      t.Nombre,
		Porcentaje:  t.Porcentaje,
		Obligatorio: t.Obligatorio,
		Prioridad:   t.Prioridad,
		Activo:      t.Activo,
	}
}
