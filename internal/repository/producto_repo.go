package repository

import (
	"context"

	"saborpos/internal/dto"
	"saborpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products and their
// recipes. Recipe items always load ordered by orden so cost resolution sees
// the bill of materials in authoring order.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindBySKU(ctx context.Context, sku string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	// ListActivos returns every active product with its recipe, for batch costing.
	ListActivos(ctx context.Context) ([]model.Producto, error)
	// ListEspejos returns active products flagged es_tambien_insumo, with recipes.
	ListEspejos(ctx context.Context) ([]model.Producto, error)
	// ListConInsumoEnReceta returns active products whose recipe references the insumo.
	ListConInsumoEnReceta(ctx context.Context, insumoID uuid.UUID) ([]model.Producto, error)
	// CountEspejosConNombre counts OTHER active mirror-flagged products with the
	// given name — a non-zero result makes the mirror target ambiguous.
	CountEspejosConNombre(ctx context.Context, nombre string, excluirID uuid.UUID) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Producto) error
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	// ReplaceRecetaTx swaps the whole recipe of a product atomically.
	ReplaceRecetaTx(tx *gorm.DB, productoID uuid.UUID, items []model.RecetaItem) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func conReceta(db *gorm.DB) *gorm.DB {
	return db.Preload("Receta", func(q *gorm.DB) *gorm.DB {
		return q.Order("receta_items.orden ASC")
	}).Preload("Receta.Insumo")
}

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := conReceta(r.db.WithContext(ctx)).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindBySKU(ctx context.Context, sku string) (*model.Producto, error) {
	var p model.Producto
	err := conReceta(r.db.WithContext(ctx)).Where("sku = ?", sku).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
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
	err := conReceta(q).Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := conReceta(r.db.WithContext(ctx)).
		Where("activo = true").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListEspejos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := conReceta(r.db.WithContext(ctx)).
		Where("activo = true AND es_tambien_insumo = true").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListConInsumoEnReceta(ctx context.Context, insumoID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := conReceta(r.db.WithContext(ctx)).
		Joins("JOIN receta_items ON receta_items.producto_id = productos.id").
		Where("receta_items.insumo_id = ? AND productos.activo = true", insumoID).
		Distinct("productos.*").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CountEspejosConNombre(ctx context.Context, nombre string, excluirID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("nombre = ? AND es_tambien_insumo = true AND activo = true AND id <> ?", nombre, excluirID).
		Count(&total).Error
	return total, err
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	// Omit the association: the recipe is replaced explicitly via ReplaceRecetaTx.
	return tx.Omit("Receta").Save(p).Error
}

func (r *productoRepo) ReplaceRecetaTx(tx *gorm.DB, productoID uuid.UUID, items []model.RecetaItem) error {
	if err := tx.Where("producto_id = ?", productoID).Delete(&model.RecetaItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for idx := range items {
		items[idx].ProductoID = productoID
		items[idx].Orden = idx
	}
	return tx.Create(&items).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
