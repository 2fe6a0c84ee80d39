package repository

import (
	"context"

	"saborpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialCostoRepository persists the immutable unit-cost change log for
// mirror insumos. Rows are only ever inserted.
type HistorialCostoRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialCosto) error
	ListByInsumo(ctx context.Context, insumoID uuid.UUID, page, limit int) ([]model.HistorialCosto, int64, error)
}

type historialCostoRepo struct{ db *gorm.DB }

func NewHistorialCostoRepository(db *gorm.DB) HistorialCostoRepository {
	return &historialCostoRepo{db: db}
}

func (r *historialCostoRepo) CreateTx(tx *gorm.DB, h *model.HistorialCosto) error {
	return tx.Create(h).Error
}

func (r *historialCostoRepo) ListByInsumo(ctx context.Context, insumoID uuid.UUID, page, limit int) ([]model.HistorialCosto, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	q := r.db.WithContext(ctx).Model(&model.HistorialCosto{}).Where("insumo_id = ?", insumoID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.HistorialCosto
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error
	return rows, total, err
}
