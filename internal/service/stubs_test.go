package service_test

import (
	"context"
	"encoding/json"
	"errors"

	"saborpos/internal/dto"
	"saborpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory InsumoRepository stub ──────────────────────────────────────────

type stubInsumoRepo struct {
	insumos []*model.Insumo
}

func newStubInsumoRepo() *stubInsumoRepo { return &stubInsumoRepo{} }

func (r *stubInsumoRepo) agregar(i model.Insumo) *model.Insumo {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	c := i
	r.insumos = append(r.insumos, &c)
	return &c
}

func (r *stubInsumoRepo) buscar(id uuid.UUID) *model.Insumo {
	for _, i := range r.insumos {
		if i.ID == id {
			return i
		}
	}
	return nil
}

func (r *stubInsumoRepo) Create(_ context.Context, i *model.Insumo) error {
	r.agregarPuntero(i)
	return nil
}

func (r *stubInsumoRepo) agregarPuntero(i *model.Insumo) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	c := *i
	r.insumos = append(r.insumos, &c)
}

func (r *stubInsumoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Insumo, error) {
	if i := r.buscar(id); i != nil {
		c := *i
		return &c, nil
	}
	return nil, errors.New("record not found")
}

func (r *stubInsumoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Insumo, error) {
	var result []model.Insumo
	for _, id := range ids {
		if i := r.buscar(id); i != nil {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (r *stubInsumoRepo) FindByNombreCategoria(_ context.Context, nombre, categoria string) ([]model.Insumo, error) {
	var result []model.Insumo
	for _, i := range r.insumos {
		if i.Nombre == nombre && i.Categoria == categoria {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (r *stubInsumoRepo) List(_ context.Context, _ dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var result []model.Insumo
	for _, i := range r.insumos {
		if i.Activo {
			result = append(result, *i)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubInsumoRepo) Update(_ context.Context, i *model.Insumo) error {
	return r.UpdateTx(nil, i)
}

func (r *stubInsumoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if i := r.buscar(id); i != nil {
		i.Activo = false
		return nil
	}
	return errors.New("record not found")
}

func (r *stubInsumoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if i := r.buscar(id); i != nil {
		i.Activo = true
		return nil
	}
	return errors.New("record not found")
}

func (r *stubInsumoRepo) CreateTx(_ *gorm.DB, i *model.Insumo) error {
	r.agregarPuntero(i)
	return nil
}

func (r *stubInsumoRepo) UpdateTx(_ *gorm.DB, i *model.Insumo) error {
	if existente := r.buscar(i.ID); existente != nil {
		*existente = *i
		return nil
	}
	return errors.New("record not found")
}

func (r *stubInsumoRepo) DB() *gorm.DB { return nil }

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos []*model.Producto
}

func newStubProductoRepo() *stubProductoRepo { return &stubProductoRepo{} }

func (r *stubProductoRepo) buscar(id uuid.UUID) *model.Producto {
	for _, p := range r.productos {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	if p := r.buscar(id); p != nil {
		c := *p
		return &c, nil
	}
	return nil, errors.New("record not found")
}

func (r *stubProductoRepo) FindBySKU(_ context.Context, sku string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) ListEspejos(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.EsTambienInsumo {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) ListConInsumoEnReceta(_ context.Context, insumoID uuid.UUID) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if !p.Activo {
			continue
		}
		for _, item := range p.Receta {
			if item.InsumoID == insumoID {
				result = append(result, *p)
				break
			}
		}
	}
	return result, nil
}

func (r *stubProductoRepo) CountEspejosConNombre(_ context.Context, nombre string, excluirID uuid.UUID) (int64, error) {
	var total int64
	for _, p := range r.productos {
		if p.Nombre == nombre && p.EsTambienInsumo && p.Activo && p.ID != excluirID {
			total++
		}
	}
	return total, nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p := r.buscar(id); p != nil {
		p.Activo = false
		return nil
	}
	return errors.New("record not found")
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p := r.buscar(id); p != nil {
		p.Activo = true
		return nil
	}
	return errors.New("record not found")
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	c := *p
	r.productos = append(r.productos, &c)
	return nil
}

func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	if existente := r.buscar(p.ID); existente != nil {
		*existente = *p
		return nil
	}
	return errors.New("record not found")
}

func (r *stubProductoRepo) ReplaceRecetaTx(_ *gorm.DB, productoID uuid.UUID, items []model.RecetaItem) error {
	p := r.buscar(productoID)
	if p == nil {
		return errors.New("record not found")
	}
	for idx := range items {
		items[idx].ProductoID = productoID
		items[idx].Orden = idx
	}
	p.Receta = items
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── In-memory TipoCostoRepository stub ───────────────────────────────────────

type stubTipoCostoRepo struct {
	tipos []*model.TipoCosto
}

func newStubTipoCostoRepo() *stubTipoCostoRepo { return &stubTipoCostoRepo{} }

func (r *stubTipoCostoRepo) agregar(t model.TipoCosto) *model.TipoCosto {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	c := t
	r.tipos = append(r.tipos, &c)
	return &c
}

func (r *stubTipoCostoRepo) buscar(id uuid.UUID) *model.TipoCosto {
	for _, t := range r.tipos {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *stubTipoCostoRepo) Create(_ context.Context, t *model.TipoCosto) error {
	r.agregar(*t)
	return nil
}

func (r *stubTipoCostoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoCosto, error) {
	if t := r.buscar(id); t != nil {
		c := *t
		return &c, nil
	}
	return nil, errors.New("record not found")
}

func (r *stubTipoCostoRepo) FindByNombre(_ context.Context, nombre string) (*model.TipoCosto, error) {
	for _, t := range r.tipos {
		if t.Nombre == nombre {
			c := *t
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTipoCostoRepo) List(_ context.Context) ([]model.TipoCosto, error) {
	result := make([]model.TipoCosto, 0, len(r.tipos))
	for _, t := range r.tipos {
		result = append(result, *t)
	}
	return result, nil
}

func (r *stubTipoCostoRepo) Update(_ context.Context, t *model.TipoCosto) error {
	if existente := r.buscar(t.ID); existente != nil {
		*existente = *t
		return nil
	}
	return errors.New("record not found")
}

func (r *stubTipoCostoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if t := r.buscar(id); t != nil {
		t.Activo = false
		return nil
	}
	return errors.New("record not found")
}

func (r *stubTipoCostoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if t := r.buscar(id); t != nil {
		t.Activo = true
		return nil
	}
	return errors.New("record not found")
}

// ── In-memory HistorialCostoRepository stub ──────────────────────────────────

type stubHistorialRepo struct {
	registros []model.HistorialCosto
}

func newStubHistorialRepo() *stubHistorialRepo { return &stubHistorialRepo{} }

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialCosto) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.registros = append(r.registros, *h)
	return nil
}

func (r *stubHistorialRepo) ListByInsumo(_ context.Context, insumoID uuid.UUID, page, limit int) ([]model.HistorialCosto, int64, error) {
	var result []model.HistorialCosto
	for _, h := range r.registros {
		if h.InsumoID == insumoID {
			result = append(result, h)
		}
	}
	return result, int64(len(result)), nil
}

// ── Encolador stub ───────────────────────────────────────────────────────────

type trabajoEncolado struct {
	cola    string
	payload json.RawMessage
}

type stubEncolador struct {
	trabajos []trabajoEncolado
}

func newStubEncolador() *stubEncolador { return &stubEncolador{} }

func (e *stubEncolador) EnqueueRecosteo(_ context.Context, payload interface{}) error {
	return e.guardar("recosteo", payload)
}

func (e *stubEncolador) EnqueueEmail(_ context.Context, payload interface{}) error {
	return e.guardar("email", payload)
}

func (e *stubEncolador) guardar(cola string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	e.trabajos = append(e.trabajos, trabajoEncolado{cola: cola, payload: data})
	return nil
}

// ── GeneradorPDF stub ────────────────────────────────────────────────────────

type stubGeneradorPDF struct {
	generados int
	ruta      string
}

func (g *stubGeneradorPDF) GenerarReporteCostos(_ []dto.DesgloseResponse) (string, error) {
	g.generados++
	if g.ruta == "" {
		g.ruta = "/tmp/reporte_test.pdf"
	}
	return g.ruta, nil
}
