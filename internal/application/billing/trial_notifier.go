package billing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// Tipos de aviso de fin de prueba.
const (
	TrialNotice10Days = "10_days"
	TrialNotice5Days  = "5_days"
	TrialNoticeDaily  = "daily"
)

// TrialNotice aviso listo para enviar a un administrador.
type TrialNotice struct {
	To            string
	CompanyName   string
	Kind          string
	DaysRemaining int
	Subject       string
	Message       string
}

// TrialNotifier avisa a los administradores de empresas cuya prueba está por vencer.
type TrialNotifier struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	subs      repository.SubscriptionRepository
	notifier  Notifier
	metrics   Metrics
	now       func() time.Time
	log       zerolog.Logger
}

// NewTrialNotifier construye el notificador. metrics puede ser nil.
func NewTrialNotifier(companies repository.CompanyRepository, users repository.UserRepository, subs repository.SubscriptionRepository, notifier Notifier, metrics Metrics, now func() time.Time, log zerolog.Logger) *TrialNotifier {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &TrialNotifier{companies: companies, users: users, subs: subs, notifier: notifier, metrics: metrics, now: now, log: log}
}

// DaysRemaining días enteros hasta el fin de la prueba, redondeando hacia arriba.
func DaysRemaining(trialEnd, now time.Time) int {
	return int(math.Ceil(trialEnd.Sub(now).Hours() / 24))
}

// NoticeKind tipo de aviso para los días restantes; "" si ese día no se avisa.
func NoticeKind(days int) string {
	switch {
	case days == 10:
		return TrialNotice10Days
	case days == 5:
		return TrialNotice5Days
	case days >= 0 && days <= 4:
		return TrialNoticeDaily
	}
	return ""
}

// Run recorre las empresas en prueba y envía los avisos del día.
// Un envío fallido se registra y no detiene el resto. Devuelve la cantidad enviada.
func (n *TrialNotifier) Run(ctx context.Context) (int, error) {
	now := n.now()
	companies, err := n.companies.ListTrialCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("billing: empresas en prueba: %w", err)
	}
	sent := 0
	for _, c := range companies {
		if c.UnlimitedAccess || c.TrialEndDate == nil {
			continue
		}
		log := n.log.With().Str("company_id", c.ID).Logger()
		sub, err := n.subs.GetLatestActive(ctx, c.ID)
		if err != nil {
			log.Error().Err(err).Msg("no se pudo consultar la suscripción")
			continue
		}
		if sub != nil && sub.EndDate.After(now) {
			continue
		}
		days := DaysRemaining(*c.TrialEndDate, now)
		kind := NoticeKind(days)
		if kind == "" {
			continue
		}
		admins, err := n.users.ListAdminsByCompany(ctx, c.ID)
		if err != nil {
			log.Error().Err(err).Msg("no se pudieron listar los administradores")
			continue
		}
		subject, message := composeTrialNotice(c.Name, days)
		for _, u := range admins {
			notice := TrialNotice{To: u.Email, CompanyName: c.Name, Kind: kind, DaysRemaining: days, Subject: subject, Message: message}
			if err := n.notifier.SendTrialNotice(ctx, notice); err != nil {
				log.Error().Err(err).Str("user_id", u.ID).Msg("no se pudo enviar el aviso de prueba")
				continue
			}
			sent++
			n.metrics.TrialNotice(kind)
		}
		log.Info().Int("days_remaining", days).Str("kind", kind).Int("recipients", len(admins)).Msg("avisos de prueba procesados")
	}
	return sent, nil
}

func composeTrialNotice(company string, days int) (subject, message string) {
	switch {
	case days <= 0:
		return "Seu período de degustação expirou - " + company,
			fmt.Sprintf("O período de degustação da empresa %s expirou. Para continuar utilizando o sistema, assine um de nossos planos.", company)
	case days == 1:
		return "Último dia do período de degustação - " + company,
			fmt.Sprintf("Este é o último dia do período de degustação da empresa %s. Assine agora para não perder o acesso!", company)
	default:
		return fmt.Sprintf("Restam %d dias do período de degustação - %s", days, company),
			fmt.Sprintf("Restam apenas %d dias do período de degustação da empresa %s. Não perca acesso ao sistema, assine agora!", days, company)
	}
}
