package dto

import "github.com/shopspring/decimal"

type CrearTipoCostoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=2,max=80"`
	Porcentaje  decimal.Decimal `json:"porcentaje"  validate:"min=0,max=100"`
	Obligatorio bool            `json:"obligatorio"`
	Prioridad   int             `json:"prioridad"`
}

type ActualizarTipoCostoRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,min=2,max=80"`
	Porcentaje  *decimal.Decimal `json:"porcentaje"`
	Obligatorio *bool            `json:"obligatorio"`
	Prioridad   *int             `json:"prioridad"`
	Activo      *bool            `json:"activo"`
}

type TipoCostoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Porcentaje  decimal.Decimal `json:"porcentaje"`
	Obligatorio bool            `json:"obligatorio"`
	Prioridad   int             `json:"prioridad"`
	Activo      bool            `json:"activo"`
}
