package repository

import (
	"context"

	"saborpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoCostoRepository defines the data access contract for tipos de costo.
type TipoCostoRepository interface {
	Create(ctx context.Context, t *model.TipoCosto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCosto, error)
	FindByNombre(ctx context.Context, nombre string) (*model.TipoCosto, error)
	// List returns ALL tipos (active and inactive) ordered by prioridad then id.
	// The calculator needs inactive rows too: an inactive obligatorio must fail
	// the computation, never be silently dropped by the query.
	List(ctx context.Context) ([]model.TipoCosto, error)
	Update(ctx context.Context, t *model.TipoCosto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type tipoCostoRepo struct{ db *gorm.DB }

func NewTipoCostoRepository(db *gorm.DB) TipoCostoRepository { return &tipoCostoRepo{db: db} }

func (r *tipoCostoRepo) Create(ctx context.Context, t *model.TipoCosto) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoCostoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCosto, error) {
	var t model.TipoCosto
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tipoCostoRepo) FindByNombre(ctx context.Context, nombre string) (*model.TipoCosto, error) {
	var t model.TipoCosto
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&t).Error
	return &t, err
}

func (r *tipoCostoRepo) List(ctx context.Context) ([]model.TipoCosto, error) {
	var tipos []model.TipoCosto
	err := r.db.WithContext(ctx).Order("prioridad ASC, id ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoCostoRepo) Update(ctx context.Context, t *model.TipoCosto) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoCostoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TipoCosto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *tipoCostoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TipoCosto{}).Where("id = ?", id).Update("activo", true).Error
}
