package infra

import (
	"fmt"
	"net/smtp"

	"saborpos/internal/config"

	"github.com/jordan-wright/email"
)

const cuerpoReporte = "Adjunto encontrara el reporte de costos y precios generado por SaborPOS."

// Mailer delivers cost reports by SMTP. net/smtp only provides the auth
// primitive here; message assembly and attachments go through jordan-wright/email.
type Mailer struct {
	from string
	addr string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from: cfg.SMTPUser,
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
	}
}

// SendReporte mails the PDF at rutaPDF to the given address.
func (m *Mailer) SendReporte(to, asunto, rutaPDF string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = asunto
	e.Text = []byte(cuerpoReporte)

	if rutaPDF != "" {
		if _, err := e.AttachFile(rutaPDF); err != nil {
			return fmt.Errorf("mailer: adjuntar PDF: %w", err)
		}
	}
	return e.Send(m.addr, m.auth)
}
