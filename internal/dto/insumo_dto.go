package dto

import "github.com/shopspring/decimal"

type CrearInsumoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=120"`
	Categoria     string          `json:"categoria"      validate:"required"`
	UnidadMedida  string          `json:"unidad_medida"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
}

type ActualizarInsumoRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=120"`
	Categoria     *string          `json:"categoria"`
	UnidadMedida  *string          `json:"unidad_medida"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario"`
}

type InsumoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "", "false", "all"
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type InsumoResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Categoria         string          `json:"categoria"`
	UnidadMedida      string          `json:"unidad_medida"`
	CostoUnitario     decimal.Decimal `json:"costo_unitario"`
	Activo            bool            `json:"activo"`
	EsTambienProducto bool            `json:"es_tambien_producto"`
}

type InsumoListResponse struct {
	Data  []InsumoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Historial de costos ─────────────────────────────────────────────────────

type HistorialCostoItem struct {
	ID           string          `json:"id"`
	InsumoID     string          `json:"insumo_id"`
	ProductoID   *string         `json:"producto_id,omitempty"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	Motivo       string          `json:"motivo"`
	CreatedAt    string          `json:"created_at"`
}

type HistorialCostoListResponse struct {
	Data  []HistorialCostoItem `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
