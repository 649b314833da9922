package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"tresetapas/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDeshabilitado is returned when no SMTP host is configured.
var ErrMailerDeshabilitado = errors.New("mailer: SMTP no configurado")

// Mensaje is one outgoing email.
type Mensaje struct {
	Para     []string
	Asunto   string
	Texto    string
	Adjuntos []string // file paths
}

// Mailer sends email through the configured SMTP relay behind a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Habilitado reports whether an SMTP host is configured.
func (m *Mailer) Habilitado() bool { return m.host != "" }

// Breaker exposes the breaker state for the health check.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

func (m *Mailer) Send(msg Mensaje) error {
	if !m.Habilitado() {
		return ErrMailerDeshabilitado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = msg.Para
	e.Subject = msg.Asunto
	e.Text = []byte(msg.Texto)
	for _, path := range msg.Adjuntos {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", path, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error { return e.Send(m.addr, auth) })
}
