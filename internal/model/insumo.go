package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriaEspejo is the fixed category assigned to every Insumo that mirrors
// a Producto flagged as es_tambien_insumo. Mirror lookup matches on
// (nombre, categoria) — the pair must stay unique among active insumos.
const CategoriaEspejo = "Producto"

// Insumo represents a purchasable/consumable input used in product recipes.
// EsTambienProducto=true marks a mirror: the insumo is maintained by the
// synchronizer and shadows a Producto of the same name.
type Insumo struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"index;not null"`
	Categoria     string    `gorm:"not null"`
	UnidadMedida  string    `gorm:"not null;default:'unidad'"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Activo=false is a logical deletion: historical recipes may still
	// reference this insumo, so rows are never physically removed.
	Activo            bool `gorm:"not null;default:true"`
	EsTambienProducto bool `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
