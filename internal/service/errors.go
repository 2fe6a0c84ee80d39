package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saborpos/internal/costing"
)

var (
	ErrProductoNoEncontrado  = errors.New("producto no encontrado")
	ErrInsumoNoEncontrado    = errors.New("insumo no encontrado")
	ErrTipoCostoNoEncontrado = errors.New("tipo de costo no encontrado")
	ErrSKUDuplicado          = errors.New("ya existe un producto con ese SKU")
	ErrNombreDuplicado       = errors.New("ya existe un registro con ese nombre")
	// ErrCategoriaReservada rejects manual insumos in the mirror category.
	// Mirror rows are owned exclusively by the synchronizer.
	ErrCategoriaReservada = errors.New("la categoria Producto esta reservada para espejos")
	// ErrInsumoEspejo rejects direct writes to mirror insumos.
	ErrInsumoEspejo = errors.New("el insumo es un espejo y se gestiona desde su producto")
	// ErrColaNoDisponible signals that no job queue was configured.
	ErrColaNoDisponible = errors.New("la cola de trabajos no esta disponible")
)

// EspejoAmbiguoError reports a mirror target that cannot be resolved because
// more than one candidate shares the (nombre, categoria) pair. Resolution is
// deliberately left to the caller — the engine never guesses.
type EspejoAmbiguoError struct {
	Nombre string
}

func (e *EspejoAmbiguoError) Error() string {
	return fmt.Sprintf("espejo ambiguo: mas de un candidato para nombre %q", e.Nombre)
}

// PersistenciaError wraps a storage failure so handlers can surface a generic
// message without leaking driver internals.
type PersistenciaError struct {
	Op  string
	Err error
}

func (e *PersistenciaError) Error() string {
	return fmt.Sprintf("fallo de persistencia en %s: %v", e.Op, e.Err)
}

func (e *PersistenciaError) Unwrap() error { return e.Err }

// esErrorDominio distinguishes business errors (returned to the client as-is)
// from storage errors (wrapped in PersistenciaError).
func esErrorDominio(err error) bool {
	var recErr *costing.RecetaInvalidaError
	var descErr *costing.InsumoDesconocidoError
	var inacErr *costing.InsumoInactivoError
	var obligErr *costing.CostoObligatorioInactivoError
	var ambErr *EspejoAmbiguoError
	return errors.As(err, &recErr) ||
		errors.As(err, &descErr) ||
		errors.As(err, &inacErr) ||
		errors.As(err, &obligErr) ||
		errors.As(err, &ambErr) ||
		errors.Is(err, ErrProductoNoEncontrado) ||
		errors.Is(err, ErrInsumoNoEncontrado) ||
		errors.Is(err, ErrTipoCostoNoEncontrado) ||
		errors.Is(err, ErrSKUDuplicado) ||
		errors.Is(err, ErrNombreDuplicado) ||
		errors.Is(err, ErrCategoriaReservada) ||
		errors.Is(err, ErrInsumoEspejo)
}

// esErrorTransitorio reports whether a storage error is worth one retry
// (serialization failures and deadlocks under concurrent updates).
func esErrorTransitorio(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access")
}

// Encolador abstracts the async job queue so services stay decoupled from the
// worker pool implementation. *worker.Dispatcher satisfies it.
type Encolador interface {
	EnqueueRecosteo(ctx context.Context, payload interface{}) error
	EnqueueEmail(ctx context.Context, payload interface{}) error
}
