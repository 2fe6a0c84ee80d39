package worker

// recosteo_cron.go
// Nightly pass that recomputes every mirror insumo from current component
// costs. Catches anything the event-driven recost jobs missed (DLQ'd jobs,
// costs changed while the service was down).

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RecosteadorGlobal runs a full-catalog recost. Satisfied by service.EspejoService.
type RecosteadorGlobal interface {
	RecostearTodos(ctx context.Context, motivo string) (int, error)
}

// StartRecosteoCron schedules the nightly recost pass using a standard
// 5-field cron spec. The returned cron is already started; callers stop it
// on shutdown.
func StartRecosteoCron(ctx context.Context, spec string, recosteador RecosteadorGlobal) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()

		inicio := time.Now()
		cambiados, err := recosteador.RecostearTodos(runCtx, "recosteo_nocturno")
		if err != nil {
			log.Error().Err(err).Msg("recosteo_cron: nightly pass failed")
			return
		}
		log.Info().
			Int("espejos_actualizados", cambiados).
			Dur("duracion", time.Since(inicio)).
			Msg("recosteo_cron: nightly pass completed")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("recosteo_cron: scheduled")
	return c, nil
}
