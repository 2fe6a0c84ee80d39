package worker

// recosteo_worker.go
// Processes mirror recost jobs from QueueRecosteo. A job carries the insumo
// whose unit cost changed; the worker recomputes every mirror insumo whose
// product recipe references it.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecosteoJobPayload is the job envelope sent to QueueRecosteo.
type RecosteoJobPayload struct {
	InsumoID string `json:"insumo_id"`
	Motivo   string `json:"motivo"`
}

// Recosteador recomputes mirror unit costs. Satisfied by service.EspejoService.
type Recosteador interface {
	RecostearPorInsumo(ctx context.Context, insumoID uuid.UUID, motivo string) (int, error)
}

// RecosteoWorker processes recost jobs from QueueRecosteo.
type RecosteoWorker struct {
	recosteador Recosteador
}

func NewRecosteoWorker(recosteador Recosteador) *RecosteoWorker {
	return &RecosteoWorker{recosteador: recosteador}
}

// Process recomputes every mirror affected by one insumo cost change.
func (w *RecosteoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RecosteoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Malformed payloads are not retriable
		log.Error().Err(err).Msg("recosteo_worker: invalid payload")
		return nil
	}
	insumoID, err := uuid.Parse(payload.InsumoID)
	if err != nil {
		log.Error().Str("insumo_id", payload.InsumoID).Msg("recosteo_worker: invalid insumo_id")
		return nil
	}

	motivo := payload.Motivo
	if motivo == "" {
		motivo = "recosteo"
	}

	cambiados, err := w.recosteador.RecostearPorInsumo(ctx, insumoID, motivo)
	if err != nil {
		return fmt.Errorf("recosteo_worker: %w", err)
	}
	log.Info().
		Str("insumo_id", payload.InsumoID).
		Int("espejos_actualizados", cambiados).
		Msg("recosteo_worker: recost completed")
	return nil
}
