package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/access"
	"github.com/jhoicas/pedidos-api/internal/application/auth"
	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/application/ledger"
	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/application/quotes"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/pedidos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pedidos-api/pkg/jwt"
	"github.com/jhoicas/pedidos-api/pkg/signature"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	webhookSecret  = "whsec-test"
	trialCompany   = "00000000-0000-0000-0000-0000000000a1"
	expiredCompany = "00000000-0000-0000-0000-0000000000a2"
	pendingSubID   = "00000000-0000-0000-0000-0000000000b1"
	monthlyPlanID  = "11111111-1111-1111-1111-111111111111"
)

var routerNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func routerClock() time.Time { return routerNow }

type apiEnv struct {
	app   *fiber.App
	store *memory.Store
}

// newAPI arma el router completo sobre el store en memoria, con una empresa en
// prueba, otra con la prueba vencida y una suscripción pendiente para esta última.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	store := memory.NewStore()

	trialEnd := routerNow.AddDate(0, 0, 10)
	expiredEnd := routerNow.AddDate(0, 0, -1)
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: trialCompany, Name: "Gráfica Aurora", TrialEndDate: &trialEnd}))
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: expiredCompany, Name: "Doces da Vó", TrialEndDate: &expiredEnd}))
	store.AddPlan(entity.Plan{ID: monthlyPlanID, Name: "Mensal", DurationMonths: 1, Price: decimal.RequireFromString("49.90")})
	_, err := store.Subscriptions().Create(ctx, &entity.Subscription{
		ID:            pendingSubID,
		CompanyID:     expiredCompany,
		PlanID:        monthlyPlanID,
		Status:        entity.SubscriptionPending,
		StartDate:     routerNow,
		EndDate:       routerNow.AddDate(0, 1, 0),
		PaymentMethod: entity.PaymentPix,
		CreatedAt:     routerNow,
	})
	require.NoError(t, err)

	accessUC := access.NewUseCase(store.Companies(), store.Subscriptions(), memory.NewStatusCache(routerClock), time.Minute, routerClock, log)
	ledgerUC := ledger.NewUseCase(store.Ledger(), store.Orders(), store.Companies(), nil, routerClock, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{
			Secret:     testJWTSecret,
			ExpMinutes: testExpMin,
			Issuer:     testIssuer,
		}, 30, routerClock, log),
		AccessUC: accessUC,
		ProvisioningUC: billing.NewProvisioningUseCase(billing.ProvisioningDeps{
			Plans:         store.Plans(),
			Companies:     store.Companies(),
			Subscriptions: store.Subscriptions(),
			Intents:       store.Intents(),
			Access:        accessUC,
			Now:           routerClock,
			Log:           log,
		}),
		WebhookUC: billing.NewWebhookUseCase(webhookSecret, store.Subscriptions(), accessUC, nil, routerClock, log),
		OrdersUC: orders.NewUseCase(orders.Deps{
			Orders:    store.Orders(),
			Companies: store.Companies(),
			Tx:        store,
			Sweeper:   ledgerUC,
			Receipts:  pdf.NewReceiptGenerator(routerClock),
			Now:       routerClock,
			Log:       log,
		}),
		QuotesUC:  quotes.NewUseCase(store.Quotes(), store, routerClock, log),
		LedgerUC:  ledgerUC,
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return &apiEnv{app: app, store: store}
}

func bearer(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *apiEnv) call(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *apiEnv) webhook(t *testing.T, raw []byte, sig string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/asaas", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(apphttp.WebhookSignatureHeader, sig)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func orderBody(code string) map[string]any {
	return map[string]any{
		"code":          code,
		"description":   "Convites de casamento",
		"delivery_date": "2026-03-20",
		"total_value":   "1000.00",
		"has_advance":   true,
		"advance_value": "300.00",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Paywall
// ──────────────────────────────────────────────────────────────────────────────

func TestPaywall_PruebaVencidaBloqueaPedidos(t *testing.T) {
	env := newAPI(t)
	tok := bearer(t, expiredCompany, "user")

	resp := env.call(t, http.MethodGet, "/api/orders", tok, nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "PAYMENT_REQUIRED", errBody.Code)

	// La consulta de estado y el catálogo siguen disponibles para poder contratar.
	resp = env.call(t, http.MethodGet, "/api/subscription/status", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[dto.AccessStatusResponse](t, resp)
	assert.Equal(t, "expired", status.Status)
	assert.False(t, status.IsActive)

	resp = env.call(t, http.MethodGet, "/api/plans", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plans := decode[[]dto.PlanResponse](t, resp)
	require.Len(t, plans, 1)
	assert.Equal(t, "Mensal", plans[0].Name)
}

func TestPaywall_SinTokenRetorna401(t *testing.T) {
	env := newAPI(t)
	resp := env.call(t, http.MethodGet, "/api/orders", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPaywall_SuperadminSinEmpresaPasa(t *testing.T) {
	env := newAPI(t)
	resp := env.call(t, http.MethodGet, "/api/subscription/status", bearer(t, "", "superadmin"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[dto.AccessStatusResponse](t, resp)
	assert.Equal(t, "unlimited", status.Status)
	assert.True(t, status.IsActive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Webhook
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_FirmaInvalidaNoModifica(t *testing.T) {
	env := newAPI(t)
	raw := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","externalReference":"` + pendingSubID + `"}}`)

	resp := env.webhook(t, raw, signature.Sign("otro-secreto", raw))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.NotEmpty(t, body["error"])

	resp = env.webhook(t, raw, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	sub, err := env.store.Subscriptions().GetByID(context.Background(), pendingSubID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionPending, sub.Status)
}

func TestWebhook_PagoConfirmadoLiberaElAcceso(t *testing.T) {
	env := newAPI(t)
	tok := bearer(t, expiredCompany, "admin")

	// Primer acceso: bloqueado, y el estado queda en caché.
	resp := env.call(t, http.MethodGet, "/api/orders", tok, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	raw := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","externalReference":"` + pendingSubID + `"}}`)
	resp = env.webhook(t, raw, signature.Sign(webhookSecret, raw))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ack := decode[dto.WebhookAck](t, resp)
	assert.True(t, ack.Received)

	sub, err := env.store.Subscriptions().GetByID(context.Background(), pendingSubID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)

	// El webhook invalidó la caché: el acceso se libera sin esperar el TTL.
	resp = env.call(t, http.MethodGet, "/api/orders", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhook_ReferenciaDesconocidaSeConfirma(t *testing.T) {
	env := newAPI(t)
	raw := []byte(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_9","externalReference":"no-existe"}}`)

	resp := env.webhook(t, raw, signature.Sign(webhookSecret, raw))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ack := decode[dto.WebhookAck](t, resp)
	assert.True(t, ack.Received)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_CicloCompletoPorHTTP(t *testing.T) {
	env := newAPI(t)
	tok := bearer(t, trialCompany, "user")

	resp := env.call(t, http.MethodPost, "/api/orders", tok, orderBody("P-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, "in_progress", created.Status)
	assert.True(t, created.PendingValue.Equal(decimal.RequireFromString("700")))

	resp = env.call(t, http.MethodGet, "/api/orders/"+created.ID, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Saltar a completed desde in_progress no está en la tabla.
	resp = env.call(t, http.MethodPost, "/api/orders/"+created.ID+"/transitions", tok, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)

	for _, next := range []string{"ready", "delivered_pending_payment", "completed"} {
		resp = env.call(t, http.MethodPost, "/api/orders/"+created.ID+"/transitions", tok, map[string]string{"status": next})
		require.Equal(t, http.StatusOK, resp.StatusCode, next)
		out := decode[dto.OrderResponse](t, resp)
		assert.Equal(t, next, out.Status)
	}

	resp = env.call(t, http.MethodGet, "/api/financial/transactions", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	txs := decode[[]dto.TransactionResponse](t, resp)
	require.Len(t, txs, 1)
	assert.Equal(t, created.ID, txs[0].OrderID)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("1000")))

	resp = env.call(t, http.MethodGet, "/api/orders/"+created.ID+"/receipt", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdfBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestOrders_ValidacionYNoEncontrado(t *testing.T) {
	env := newAPI(t)
	tok := bearer(t, trialCompany, "user")

	body := orderBody("")
	resp := env.call(t, http.MethodPost, "/api/orders", tok, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Message, "code")

	body = orderBody("P-2")
	body["advance_value"] = "1500.00"
	resp = env.call(t, http.MethodPost, "/api/orders", tok, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.call(t, http.MethodGet, "/api/orders/00000000-0000-0000-0000-00000000ffff", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tok)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_BODY", errBody.Code)
}

func TestOrders_OtraEmpresaNoVeElPedido(t *testing.T) {
	env := newAPI(t)

	resp := env.call(t, http.MethodPost, "/api/orders", bearer(t, trialCompany, "user"), orderBody("P-3"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.OrderResponse](t, resp)

	resp = env.call(t, http.MethodGet, "/api/orders/"+created.ID, bearer(t, "00000000-0000-0000-0000-0000000000a9", "superadmin"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIDsQueNoSonUUIDDevuelven404(t *testing.T) {
	env := newAPI(t)
	tok := bearer(t, trialCompany, "admin")
	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/orders/P-1", nil},
		{http.MethodGet, "/api/orders/P-1/receipt", nil},
		{http.MethodPost, "/api/orders/P-1/transitions", map[string]string{"status": "ready"}},
		{http.MethodPost, "/api/quotes/q-1/approve", nil},
		{http.MethodPost, "/api/quotes/q-1/convert", nil},
		{http.MethodPatch, "/api/financial/transactions/tx-1/paid", map[string]bool{"paid": true}},
		{http.MethodGet, "/api/subscriptions/sub-123/pix", nil},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := env.call(t, tc.method, tc.path, tok, tc.body)
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Presupuestos
// ──────────────────────────────────────────────────────────────────────────────

func TestQuotes_AprobarYConvertirUnaSolaVez(t *testing.T) {
	env := newAPI(t)
	tok := bearer(t, trialCompany, "user")

	resp := env.call(t, http.MethodPost, "/api/quotes", tok, map[string]any{
		"client_id":     "cli-7",
		"code":          "O-1",
		"description":   "Banner 3x1",
		"delivery_date": "2026-03-25",
		"cost_value":    "120.00",
		"sale_value":    "300.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	q := decode[dto.QuoteResponse](t, resp)
	assert.True(t, q.ProfitValue.Equal(decimal.RequireFromString("180")))

	resp = env.call(t, http.MethodPost, "/api/quotes/"+q.ID+"/approve", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.call(t, http.MethodPost, "/api/quotes/"+q.ID+"/convert", tok, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, q.ID, o.QuoteID)
	assert.True(t, o.TotalValue.Equal(decimal.RequireFromString("300")))

	resp = env.call(t, http.MethodPost, "/api/quotes/"+q.ID+"/convert", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroYLogin(t *testing.T) {
	env := newAPI(t)
	reg := map[string]any{
		"company_name": "Papelaria Sol",
		"document":     "12345678000190",
		"email":        "dona@papelariasol.com",
		"password":     "segredo123",
	}

	resp := env.call(t, http.MethodPost, "/api/auth/register-company", "", reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.RegisterCompanyResponse](t, resp)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Role)

	// La empresa recién creada está en prueba.
	resp = env.call(t, http.MethodGet, "/api/subscription/status", "Bearer "+out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[dto.AccessStatusResponse](t, resp)
	assert.Equal(t, "trial", status.Status)

	resp = env.call(t, http.MethodPost, "/api/auth/register-company", "", reg)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dona@papelariasol.com", "password": "segredo123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, login.Token)

	resp = env.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dona@papelariasol.com", "password": "errada123"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
