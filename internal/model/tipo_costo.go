package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoCosto is a named percentage-based additional charge (empaque, envio, …)
// applied over the subtotal when computing a product's final price.
// Prioridad defines application order (lower first); ties resolve by ID so the
// breakdown is deterministic.
type TipoCosto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string          `gorm:"uniqueIndex;not null"`
	Porcentaje decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	// Obligatorio cost types must participate in every computation; an
	// inactive obligatorio is a configuration error, not a skip.
	Obligatorio bool `gorm:"not null;default:false"`
	Prioridad   int  `gorm:"not null;default:0"`
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
