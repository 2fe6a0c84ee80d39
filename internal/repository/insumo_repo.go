package repository

import (
	"context"

	"saborpos/internal/dto"
	"saborpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsumoRepository defines the data access contract for insumos.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type InsumoRepository interface {
	Create(ctx context.Context, i *model.Insumo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error)
	// FindByIDs returns the insumos matching ids; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Insumo, error)
	// FindByNombreCategoria matches the exact pair, active or not. Mirror
	// resolution relies on it; more than one row means the target is ambiguous.
	FindByNombreCategoria(ctx context.Context, nombre, categoria string) ([]model.Insumo, error)
	List(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error)
	Update(ctx context.Context, i *model.Insumo) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, i *model.Insumo) error
	UpdateTx(tx *gorm.DB, i *model.Insumo) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) Create(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *insumoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Insumo, error) {
	var insumos []model.Insumo
	if len(ids) == 0 {
		return insumos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) FindByNombreCategoria(ctx context.Context, nombre, categoria string) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).
		Where("nombre = ? AND categoria = ?", nombre, categoria).
		Order("created_at ASC").
		Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) List(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var insumos []model.Insumo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Insumo{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&insumos).Error
	return insumos, total, err
}

func (r *insumoRepo) Update(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *insumoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Insumo{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *insumoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Insumo{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *insumoRepo) CreateTx(tx *gorm.DB, i *model.Insumo) error {
	return tx.Create(i).Error
}

func (r *insumoRepo) UpdateTx(tx *gorm.DB, i *model.Insumo) error {
	return tx.Save(i).Error
}

func (r *insumoRepo) DB() *gorm.DB { return r.db }
