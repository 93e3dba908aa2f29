package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pedidos-api/pkg/signature"
)

const (
	webhookSecret = "whsec_test"
	scenarioSubID = "5b0e7c2d-9a41-4c8e-b3f6-1d2e3f4a5b6c"
	subID         = "9c8d7e6f-1a2b-4c3d-8e9f-0a1b2c3d4e5f"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingInvalidator struct{ companies []string }

func (r *recordingInvalidator) Invalidate(_ context.Context, companyID string) {
	r.companies = append(r.companies, companyID)
}

type recordingMetrics struct {
	webhooks     map[string]int
	provisioning map[string]int
	swept        map[string]int
	notices      map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{webhooks: map[string]int{}, provisioning: map[string]int{}, swept: map[string]int{}, notices: map[string]int{}}
}

func (m *recordingMetrics) WebhookEvent(event, outcome string) { m.webhooks[event+"/"+outcome]++ }
func (m *recordingMetrics) Provisioning(outcome string)        { m.provisioning[outcome]++ }
func (m *recordingMetrics) IntentSwept(status string)          { m.swept[status]++ }
func (m *recordingMetrics) TrialNotice(kind string)            { m.notices[kind]++ }

func seedSubscription(t *testing.T, store *memory.Store, id string, status entity.SubscriptionStatus) {
	t.Helper()
	_, err := store.Subscriptions().Create(context.Background(), &entity.Subscription{
		ID: id, CompanyID: "c-1", PlanID: "p-1", Status: status,
		StartDate: fixedNow, EndDate: fixedNow.AddDate(0, 1, 0), PaymentMethod: entity.PaymentPix,
	})
	require.NoError(t, err)
}

func newWebhook(store *memory.Store, inv billing.AccessInvalidator, m billing.Metrics) *billing.WebhookUseCase {
	return billing.NewWebhookUseCase(webhookSecret, store.Subscriptions(), inv, m, clock, zerolog.Nop())
}

func status(t *testing.T, store *memory.Store, id string) entity.SubscriptionStatus {
	t.Helper()
	sub, err := store.Subscriptions().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub.Status
}

func TestWebhook_ScenarioD(t *testing.T) {
	store := memory.NewStore()
	seedSubscription(t, store, scenarioSubID, entity.SubscriptionPending)
	inv := &recordingInvalidator{}
	m := newRecordingMetrics()
	uc := newWebhook(store, inv, m)
	body := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"p1","externalReference":"` + scenarioSubID + `"}}`)

	// Firma inválida: 401 y sin cambios.
	_, err := uc.Handle(context.Background(), body, signature.Sign("otro-secreto", body))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Equal(t, entity.SubscriptionPending, status(t, store, scenarioSubID))
	assert.Empty(t, inv.companies)

	// Firma válida: activa.
	outcome, err := uc.Handle(context.Background(), body, signature.Sign(webhookSecret, body))
	require.NoError(t, err)
	assert.Equal(t, billing.OutcomeApplied, outcome)
	assert.Equal(t, entity.SubscriptionActive, status(t, store, scenarioSubID))
	assert.Equal(t, []string{"c-1"}, inv.companies)
	assert.Equal(t, 1, m.webhooks["PAYMENT_CONFIRMED/applied"])
	assert.Equal(t, 1, m.webhooks["/rejected"])
}

func TestWebhook_MapeoDeEventos(t *testing.T) {
	cases := []struct {
		event   string
		outcome string
		want    entity.SubscriptionStatus
	}{
		{"PAYMENT_RECEIVED", billing.OutcomeApplied, entity.SubscriptionActive},
		{"PAYMENT_OVERDUE", billing.OutcomeApplied, entity.SubscriptionOverdue},
		{"PAYMENT_DELETED", billing.OutcomeLogged, entity.SubscriptionPending},
		{"PAYMENT_REFUNDED", billing.OutcomeLogged, entity.SubscriptionPending},
		{"PAYMENT_CREATED", billing.OutcomeIgnored, entity.SubscriptionPending},
	}
	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			store := memory.NewStore()
			seedSubscription(t, store, subID, entity.SubscriptionPending)
			uc := newWebhook(store, nil, nil)
			body := []byte(`{"event":"` + tc.event + `","payment":{"id":"p1","externalReference":"` + subID + `"}}`)

			outcome, err := uc.Handle(context.Background(), body, signature.Sign(webhookSecret, body))
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, outcome)
			assert.Equal(t, tc.want, status(t, store, subID))
		})
	}
}

func TestWebhook_ConfirmaSinMutacion(t *testing.T) {
	bodies := map[string]string{
		"sin payment":            `{"event":"PAYMENT_CONFIRMED"}`,
		"sin referencia":         `{"event":"PAYMENT_CONFIRMED","payment":{"id":"p1"}}`,
		"referencia inexistente": `{"event":"PAYMENT_CONFIRMED","payment":{"id":"p1","externalReference":"0f0f0f0f-0000-4000-8000-000000000000"}}`,
		"referencia no uuid":     `{"event":"PAYMENT_CONFIRMED","payment":{"id":"p1","externalReference":"nope"}}`,
		"no json":                `not-json`,
	}
	for name, b := range bodies {
		t.Run(name, func(t *testing.T) {
			store := memory.NewStore()
			seedSubscription(t, store, subID, entity.SubscriptionPending)
			uc := newWebhook(store, nil, nil)
			body := []byte(b)

			_, err := uc.Handle(context.Background(), body, signature.Sign(webhookSecret, body))
			assert.NoError(t, err)
			assert.Equal(t, entity.SubscriptionPending, status(t, store, subID))
		})
	}
}

// brokenSubscriptions falla como Postgres ante un id que no es UUID.
type brokenSubscriptions struct {
	repository.SubscriptionRepository
	calls int
}

func (b *brokenSubscriptions) UpdateStatus(context.Context, string, entity.SubscriptionStatus, time.Time) (string, bool, error) {
	b.calls++
	return "", false, errors.New("invalid input syntax for type uuid")
}

func TestWebhook_ReferenciaNoUUIDSeConfirmaSinTocarElStore(t *testing.T) {
	subs := &brokenSubscriptions{}
	m := newRecordingMetrics()
	uc := billing.NewWebhookUseCase(webhookSecret, subs, nil, m, clock, zerolog.Nop())
	body := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"p1","externalReference":"sub-123"}}`)

	outcome, err := uc.Handle(context.Background(), body, signature.Sign(webhookSecret, body))

	require.NoError(t, err)
	assert.Equal(t, billing.OutcomeUnknown, outcome)
	assert.Zero(t, subs.calls)
	assert.Equal(t, 1, m.webhooks["PAYMENT_CONFIRMED/"+billing.OutcomeUnknown])
}

func TestWebhook_CuerpoFirmadoNoJSONSeConfirma(t *testing.T) {
	subs := &brokenSubscriptions{}
	m := newRecordingMetrics()
	uc := billing.NewWebhookUseCase(webhookSecret, subs, nil, m, clock, zerolog.Nop())
	body := []byte(`event=PAYMENT_CONFIRMED`)

	outcome, err := uc.Handle(context.Background(), body, signature.Sign(webhookSecret, body))

	require.NoError(t, err)
	assert.Equal(t, billing.OutcomeMalformed, outcome)
	assert.Zero(t, subs.calls)
	assert.Equal(t, 1, m.webhooks["/"+billing.OutcomeMalformed])
}

func TestWebhook_UltimaEscrituraGana(t *testing.T) {
	store := memory.NewStore()
	seedSubscription(t, store, subID, entity.SubscriptionPending)
	uc := newWebhook(store, nil, nil)
	send := func(event string) {
		body := []byte(`{"event":"` + event + `","payment":{"id":"p1","externalReference":"` + subID + `"}}`)
		_, err := uc.Handle(context.Background(), body, signature.Sign(webhookSecret, body))
		require.NoError(t, err)
	}

	send("PAYMENT_CONFIRMED")
	send("PAYMENT_OVERDUE")

	assert.Equal(t, entity.SubscriptionOverdue, status(t, store, subID))
}

func TestWebhook_FirmaAusenteOSecretoVacio(t *testing.T) {
	store := memory.NewStore()
	body := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"p1","externalReference":"` + subID + `"}}`)

	_, err := newWebhook(store, nil, nil).Handle(context.Background(), body, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidSignature))

	noSecret := billing.NewWebhookUseCase("", store.Subscriptions(), nil, nil, clock, zerolog.Nop())
	_, err = noSecret.Handle(context.Background(), body, signature.Sign("", body))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}
