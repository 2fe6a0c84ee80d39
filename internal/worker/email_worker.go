package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the cost report PDF via SMTP.

import (
	"context"
	"encoding/json"

	"saborpos/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	Email   string `json:"email"`
	Asunto  string `json:"asunto"`
	Adjunto string `json:"adjunto"`
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends an email with the cost report attached.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.Email == "" {
		log.Warn().Msg("email_worker: empty email, skipping")
		return nil
	}

	asunto := payload.Asunto
	if asunto == "" {
		asunto = "Reporte de costos"
	}
	if err := w.mailer.SendReporte(payload.Email, asunto, payload.Adjunto); err != nil {
		return err
	}
	log.Info().Str("to", payload.Email).Msg("email_worker: reporte enviado")
	return nil
}
