package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecetaItem is one line of a product's bill of materials: cantidad units of
// the referenced insumo. Orden preserves the authoring order of the recipe.
type RecetaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_receta_producto_insumo;not null"`
	InsumoID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_receta_producto_insumo;not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Orden      int             `gorm:"not null;default:0"`

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}
