package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RecetaItemRequest is one bill-of-materials line in a create/update request.
// Cantidad must be strictly positive; the resolver rejects anything else.
type RecetaItemRequest struct {
	InsumoID string          `json:"insumo_id" validate:"required,uuid"`
	Cantidad decimal.Decimal `json:"cantidad"  validate:"required"`
}

type CrearProductoRequest struct {
	SKU                string            `json:"sku"                 validate:"required,min=2,max=40"`
	Nombre             string            `json:"nombre"              validate:"required,min=2,max=120"`
	Categoria          string            `json:"categoria"           validate:"required"`
	PrecioBase         decimal.Decimal   `json:"precio_base"         validate:"min=0"`
	PorcentajeGanancia decimal.Decimal   `json:"porcentaje_ganancia" validate:"min=0,max=100"`
	StockActual        int               `json:"stock_actual"        validate:"min=0"`
	EsTambienInsumo    bool              `json:"es_tambien_insumo"`
	Receta             []RecetaItemRequest `json:"receta" validate:"omitempty,dive"`
}

// ActualizarProductoRequest uses pointers so absent fields are left untouched.
// Receta, when present, replaces the whole recipe.
type ActualizarProductoRequest struct {
	Nombre             *string              `json:"nombre"              validate:"omitempty,min=2,max=120"`
	Categoria          *string              `json:"categoria"`
	PrecioBase         *decimal.Decimal     `json:"precio_base"`
	PorcentajeGanancia *decimal.Decimal     `json:"porcentaje_ganancia"`
	StockActual        *int                 `json:"stock_actual"        validate:"omitempty,min=0"`
	EsTambienInsumo    *bool                `json:"es_tambien_insumo"`
	Receta             *[]RecetaItemRequest `json:"receta" validate:"omitempty,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	SKU       string `form:"sku"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "", "false", "all"
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecetaItemResponse struct {
	InsumoID     string          `json:"insumo_id"`
	InsumoNombre string          `json:"insumo_nombre,omitempty"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	Orden        int             `json:"orden"`
}

type ProductoResponse struct {
	ID                 string               `json:"id"`
	SKU                string               `json:"sku"`
	Nombre             string               `json:"nombre"`
	Categoria          string               `json:"categoria"`
	PrecioBase         decimal.Decimal      `json:"precio_base"`
	PorcentajeGanancia decimal.Decimal      `json:"porcentaje_ganancia"`
	PrecioFinal        decimal.Decimal      `json:"precio_final"`
	StockActual        int                  `json:"stock_actual"`
	EsTambienInsumo    bool                 `json:"es_tambien_insumo"`
	Activo             bool                 `json:"activo"`
	Receta             []RecetaItemResponse `json:"receta"`
	// Mirror state after the last synchronization: sin_espejo | activo | inactivo
	EstadoEspejo   string  `json:"estado_espejo,omitempty"`
	EspejoInsumoID *string `json:"espejo_insumo_id,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
