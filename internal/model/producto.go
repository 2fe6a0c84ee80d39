package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto represents a sellable item. When Receta is non-empty its base cost
// is derived from component insumos; otherwise PrecioBase is set manually.
// EsTambienInsumo=true means a mirror Insumo (categoria "Producto") exists and
// is kept in sync by the espejo service.
type Producto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU       string    `gorm:"uniqueIndex;not null"`
	Nombre    string    `gorm:"index;not null"`
	Categoria string    `gorm:"not null"`
	// PrecioBase is the manual base cost, used only when the product has no recipe.
	PrecioBase         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PorcentajeGanancia decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	// PrecioFinal is the last computed sale price; the authoritative value is
	// always recomputed on demand from current insumo costs and tipos de costo.
	PrecioFinal     decimal.Decimal `gorm:"type:decimal(10,2)"`
	StockActual     int             `gorm:"not null;default:0"`
	EsTambienInsumo bool            `gorm:"not null;default:false"`
	Activo          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Receta []RecetaItem `gorm:"foreignKey:ProductoID"`
}
