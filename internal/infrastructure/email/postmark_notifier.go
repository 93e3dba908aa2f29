// Package email envío de avisos transaccionales vía Postmark.
package email

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/mrz1836/postmark"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/billing"
)

var _ billing.Notifier = (*PostmarkNotifier)(nil)

// ErrNotConfigured se devuelve al construir sin token o remitente.
var ErrNotConfigured = errors.New("email: postmark sin configurar")

// Sender lo que se usa del cliente de Postmark.
type Sender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkNotifier implementa billing.Notifier.
type PostmarkNotifier struct {
	sender Sender
	from   string
	log    zerolog.Logger
}

// NewPostmarkNotifier crea el cliente de Postmark con el token del servidor.
func NewPostmarkNotifier(serverToken, from string, log zerolog.Logger) (*PostmarkNotifier, error) {
	if serverToken == "" || from == "" {
		return nil, ErrNotConfigured
	}
	return NewNotifierWithSender(postmark.NewClient(serverToken, ""), from, log), nil
}

// NewNotifierWithSender permite inyectar otro Sender.
func NewNotifierWithSender(sender Sender, from string, log zerolog.Logger) *PostmarkNotifier {
	return &PostmarkNotifier{sender: sender, from: from, log: log}
}

func (n *PostmarkNotifier) SendTrialNotice(ctx context.Context, notice billing.TrialNotice) error {
	resp, err := n.sender.SendEmail(ctx, postmark.Email{
		From:       n.from,
		To:         notice.To,
		Subject:    notice.Subject,
		Tag:        "trial-" + notice.Kind,
		HTMLBody:   "<p>" + html.EscapeString(notice.Message) + "</p>",
		TextBody:   notice.Message,
		TrackOpens: true,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	n.log.Debug().Str("to", notice.To).Str("kind", notice.Kind).Str("message_id", resp.MessageID).Msg("aviso de prueba enviado")
	return nil
}

// LogNotifier se usa cuando Postmark no está configurado: solo registra.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) SendTrialNotice(_ context.Context, notice billing.TrialNotice) error {
	n.Log.Info().Str("to", notice.To).Str("kind", notice.Kind).Int("days_remaining", notice.DaysRemaining).Str("subject", notice.Subject).Msg("aviso de prueba (sin envío)")
	return nil
}
