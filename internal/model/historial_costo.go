package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialCosto registra cada cambio de costo unitario de un insumo espejo.
// Los registros son inmutables — nunca se eliminan ni modifican.
type HistorialCosto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InsumoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID   *uuid.UUID      `gorm:"type:uuid;index"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo       string          `gorm:"not null;default:'sincronizacion'"` // sincronizacion | reactivacion | recosteo | recosteo_nocturno
	CreatedAt    time.Time

	Insumo Insumo `gorm:"foreignKey:InsumoID"`
}
