package asaas_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/asaas"
)

func newClient(t *testing.T, h http.HandlerFunc) *asaas.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return asaas.NewClient(srv.URL+"/v3/", "key-123", time.Second, zerolog.Nop())
}

func TestCreateSubscription_Payload(t *testing.T) {
	var got map[string]any
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/subscriptions", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("access_token"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"id":"sub_123","status":"ACTIVE"}`))
	})

	out, err := c.CreateSubscription(context.Background(), billing.SubscriptionInput{
		CustomerID:        "cus_1",
		BillingType:       entity.PaymentCreditCard,
		Value:             decimal.RequireFromString("418.8"),
		NextDueDate:       time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Cycle:             billing.CycleYearly,
		Description:       "Assinatura Anual",
		ExternalReference: "local-sub-1",
		CreditCard:        &billing.CreditCard{HolderName: "ANA", Number: "5162306219378829", ExpiryMonth: "05", ExpiryYear: "2030", CCV: "318"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_123", out.ID)
	assert.Equal(t, "ACTIVE", out.Status)

	assert.Equal(t, "cus_1", got["customer"])
	assert.Equal(t, "CREDIT_CARD", got["billingType"])
	assert.Equal(t, 418.8, got["value"])
	assert.Equal(t, "2026-03-11", got["nextDueDate"])
	assert.Equal(t, "YEARLY", got["cycle"])
	assert.Equal(t, "local-sub-1", got["externalReference"])
	assert.Contains(t, got, "creditCard")
	assert.NotContains(t, got, "creditCardHolderInfo")
}

func TestProviderErrorDescription(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"invalid_creditCard","description":"Cartão de crédito recusado."}]}`))
	})

	_, err := c.CreateCustomer(context.Background(), billing.CustomerInput{Name: "X", CpfCnpj: "24971563792"})

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Cartão de crédito recusado.", perr.Description)
	assert.Equal(t, http.StatusBadRequest, perr.Status)
	assert.Equal(t, "customers", perr.Op)
}

func TestServerErrorIsNotProviderError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.CreateSubscription(context.Background(), billing.SubscriptionInput{Value: decimal.NewFromInt(10)})

	require.Error(t, err)
	var perr *domain.ProviderError
	assert.False(t, errors.As(err, &perr))
}

func TestTimeoutIsNotProviderError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ListSubscriptionPayments(ctx, "sub_1")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPixFlow(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/subscriptions/sub_1/payments":
			_, _ = w.Write([]byte(`{"data":[{"id":"pay_1","status":"PENDING","dueDate":"2026-03-11"}]}`))
		case "/v3/payments/pay_1/pixQrCode":
			_, _ = w.Write([]byte(`{"encodedImage":"iVBOR","payload":"000201","expirationDate":"2026-03-12 23:59:59"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	payments, err := c.ListSubscriptionPayments(ctx, "sub_1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "pay_1", payments[0].ID)

	qr, err := c.GetPixQRCode(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "000201", qr.Payload)
	assert.Equal(t, "iVBOR", qr.EncodedImage)
}

func TestMissingAPIKey(t *testing.T) {
	c := asaas.NewClient("http://127.0.0.1:1", "", time.Second, zerolog.Nop())

	_, err := c.CreateCustomer(context.Background(), billing.CustomerInput{})

	assert.ErrorIs(t, err, domain.ErrExternalProvider)
}
