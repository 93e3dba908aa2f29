package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/jhoicas/pedidos-api/pkg/signature"
)

// Eventos del proveedor que el reconciliador reconoce.
const (
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentOverdue   = "PAYMENT_OVERDUE"
	EventPaymentDeleted   = "PAYMENT_DELETED"
	EventPaymentRefunded  = "PAYMENT_REFUNDED"
)

// Resultados de procesamiento (etiqueta de métricas y logs).
const (
	OutcomeApplied   = "applied"
	OutcomeIgnored   = "ignored"
	OutcomeLogged    = "logged"
	OutcomeUnknown   = "unknown_reference"
	OutcomeMalformed = "malformed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// WebhookPayload cuerpo relevante de una notificación del proveedor.
type WebhookPayload struct {
	Event   string          `json:"event"`
	Payment *WebhookPayment `json:"payment"`
}

// WebhookPayment cobro notificado. ExternalReference es el id de la suscripción local.
type WebhookPayment struct {
	ID                string `json:"id"`
	ExternalReference string `json:"externalReference"`
}

// WebhookUseCase verifica y aplica las notificaciones del proveedor.
type WebhookUseCase struct {
	secret  string
	subRepo repository.SubscriptionRepository
	access  AccessInvalidator
	metrics Metrics
	now     func() time.Time
	log     zerolog.Logger
}

// NewWebhookUseCase construye el caso de uso. access y metrics pueden ser nil.
func NewWebhookUseCase(secret string, subRepo repository.SubscriptionRepository, access AccessInvalidator, metrics Metrics, now func() time.Time, log zerolog.Logger) *WebhookUseCase {
	if access == nil {
		access = nopInvalidator{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &WebhookUseCase{secret: secret, subRepo: subRepo, access: access, metrics: metrics, now: now, log: log}
}

// Handle verifica la firma HMAC del cuerpo crudo y aplica el evento.
// Con firma inválida devuelve domain.ErrInvalidSignature sin tocar nada.
// Con firma válida solo devuelve error ante fallos inesperados del store;
// los eventos sin efecto se confirman igualmente.
func (uc *WebhookUseCase) Handle(ctx context.Context, body []byte, sig string) (string, error) {
	if err := signature.Verify(uc.secret, body, sig); err != nil {
		uc.metrics.WebhookEvent("", OutcomeRejected)
		uc.log.Warn().Err(err).Int("body_bytes", len(body)).Msg("webhook con firma inválida")
		return OutcomeRejected, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}

	var p WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		uc.metrics.WebhookEvent("", OutcomeMalformed)
		uc.log.Error().Err(err).Msg("webhook firmado con cuerpo no JSON; se confirma sin cambios")
		return OutcomeMalformed, nil
	}

	outcome, err := uc.apply(ctx, p)
	uc.metrics.WebhookEvent(p.Event, outcome)
	return outcome, err
}

func (uc *WebhookUseCase) apply(ctx context.Context, p WebhookPayload) (string, error) {
	log := uc.log.With().Str("event", p.Event).Logger()
	if p.Payment == nil || p.Payment.ExternalReference == "" {
		log.Info().Msg("webhook sin externalReference; sin cambios")
		return OutcomeIgnored, nil
	}
	log = log.With().Str("payment_id", p.Payment.ID).Str("subscription_id", p.Payment.ExternalReference).Logger()
	if !domain.ValidID(p.Payment.ExternalReference) {
		log.Warn().Msg("externalReference no es un id de suscripción; sin cambios")
		return OutcomeUnknown, nil
	}

	var target entity.SubscriptionStatus
	switch p.Event {
	case EventPaymentConfirmed, EventPaymentReceived:
		target = entity.SubscriptionActive
	case EventPaymentOverdue:
		target = entity.SubscriptionOverdue
	case EventPaymentDeleted, EventPaymentRefunded:
		// Sin cambio de estado hasta definir la política de baja.
		log.Warn().Msg("cobro eliminado o reembolsado; sin cambios en la suscripción")
		return OutcomeLogged, nil
	default:
		log.Debug().Msg("evento no manejado")
		return OutcomeIgnored, nil
	}

	companyID, found, err := uc.subRepo.UpdateStatus(ctx, p.Payment.ExternalReference, target, uc.now())
	if err != nil {
		log.Error().Err(err).Msg("no se pudo actualizar la suscripción")
		return OutcomeFailed, fmt.Errorf("billing: webhook %s: %w", p.Event, err)
	}
	if !found {
		log.Warn().Msg("externalReference no corresponde a ninguna suscripción")
		return OutcomeUnknown, nil
	}
	uc.access.Invalidate(ctx, companyID)
	log.Info().Str("company_id", companyID).Str("status", string(target)).Msg("suscripción actualizada por webhook")
	return OutcomeApplied, nil
}
