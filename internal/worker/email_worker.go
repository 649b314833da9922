package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tresetapas/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// EmailWorker sends queued emails through the SMTP mailer.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// malformed payloads never succeed; drop instead of retrying
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	msg := infra.Mensaje{Para: []string{payload.ToEmail}, Asunto: payload.Subject, Texto: payload.Body}
	if payload.PDFPath != "" {
		msg.Adjuntos = []string{payload.PDFPath}
	}
	err := w.mailer.Send(msg)
	switch {
	case errors.Is(err, infra.ErrMailerDeshabilitado):
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, email dropped")
		return nil
	case err != nil:
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
