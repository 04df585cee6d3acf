package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"github.com/jordan-wright/email"
)

// SMTP mails a whole batch as a single message
type SMTP struct {
	cfg  config.SMTPConfig
	send func(*email.Email) error
}

// NewSMTP creates an email notifier
func NewSMTP(cfg config.SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil, errors.New("smtp host, sender and recipients are required")
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return &SMTP{
		cfg:  cfg,
		send: func(e *email.Email) error { return e.Send(addr, auth) },
	}, nil
}

// Notify sends one email carrying every payload of the batch
func (s *SMTP) Notify(ctx context.Context, payloads []events.Payload) error {
	if len(payloads) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &catalog.NotificationError{Transport: "smtp", Err: err}
	}

	err := s.send(s.compose(payloads))
	prometheus.RecordNotification("smtp", err)
	if err != nil {
		return &catalog.NotificationError{Transport: "smtp", Err: err}
	}
	return nil
}

func (s *SMTP) compose(payloads []events.Payload) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Fusion Beef Catálogo <%s>", s.cfg.From)
	mail.To = s.cfg.To
	mail.Subject = payloads[0].Title
	if len(payloads) > 1 {
		mail.Subject = fmt.Sprintf("%s (+%d alertas)", payloads[0].Title, len(payloads)-1)
	}

	var body strings.Builder
	for i, p := range payloads {
		if i > 0 {
			body.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&body, "# %s\n%s", p.Title, p.Body)
	}
	mail.Text = []byte(body.String())
	return mail
}
