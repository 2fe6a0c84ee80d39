package dto

import (
	"github.com/shopspring/decimal"

	"saborpos/internal/costing"
)

// DesgloseResponse is the on-demand price breakdown of one product.
// It is never persisted: every field reflects current insumo costs and the
// tipo de costo configuration at computation time.
type DesgloseResponse struct {
	ProductoID         string                  `json:"producto_id"`
	Nombre             string                  `json:"nombre"`
	SKU                string                  `json:"sku"`
	CostoBase          decimal.Decimal         `json:"costo_base"`
	PorcentajeGanancia decimal.Decimal         `json:"porcentaje_ganancia"`
	Ganancia           decimal.Decimal         `json:"ganancia"`
	Subtotal           decimal.Decimal         `json:"subtotal"`
	Costos             []costing.CostoAplicado `json:"costos"`
	PrecioFinal        decimal.Decimal         `json:"precio_final"`
}

type ReporteCostosResponse struct {
	Data  []DesgloseResponse `json:"data"`
	Total int                `json:"total"`
}

type EnviarReporteRequest struct {
	Email  string `json:"email"  validate:"required,email"`
	Asunto string `json:"asunto" validate:"omitempty,max=140"`
}
