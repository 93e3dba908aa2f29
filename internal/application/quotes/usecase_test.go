package quotes_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/application/quotes"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/memory"
)

var auth = entity.AuthContext{UserID: "u-1", CompanyID: "c-1", Role: entity.RoleUser}

func newQuotes(t *testing.T) (*quotes.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	now := func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return quotes.NewUseCase(store.Quotes(), store, now, zerolog.Nop()), store
}

func createQuote(t *testing.T, uc *quotes.UseCase) *dto.QuoteResponse {
	t.Helper()
	q, err := uc.Create(context.Background(), auth, dto.CreateQuoteRequest{
		ClientID:     "cli-1",
		Code:         "ORC-7",
		Description:  "Doces para festa",
		DeliveryDate: "2026-04-01",
		CostValue:    decimal.RequireFromString("400"),
		SaleValue:    decimal.RequireFromString("950.00"),
	})
	require.NoError(t, err)
	return q
}

func TestCreate_CalculaLucro(t *testing.T) {
	uc, _ := newQuotes(t)

	q := createQuote(t, uc)
	assert.True(t, q.ProfitValue.Equal(decimal.RequireFromString("550")))
	assert.False(t, q.Approved)
}

func TestCreate_RechazaImportesSubCentavo(t *testing.T) {
	uc, _ := newQuotes(t)
	cases := map[string]dto.CreateQuoteRequest{
		"cost_value": {CostValue: decimal.RequireFromString("0.004"), SaleValue: decimal.NewFromInt(10)},
		"sale_value": {CostValue: decimal.NewFromInt(1), SaleValue: decimal.RequireFromString("10.001")},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			in.ClientID, in.Code, in.Description, in.DeliveryDate = "cli-1", "ORC-8", "Salgados", "2026-04-01"
			_, err := uc.Create(context.Background(), auth, in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
}

func TestConvert_ScenarioE(t *testing.T) {
	uc, store := newQuotes(t)
	ctx := context.Background()
	q := createQuote(t, uc)

	_, err := uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{})
	assert.ErrorIs(t, err, quotes.ErrNotApproved)

	approved, err := uc.Approve(ctx, auth, q.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	o, err := uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, q.ID, o.QuoteID)
	assert.Equal(t, "Doces para festa", o.Description)
	assert.Equal(t, "2026-04-01", o.DeliveryDate)
	assert.True(t, o.TotalValue.Equal(decimal.RequireFromString("950")), "total por defecto = sale_value")
	assert.Equal(t, "in_progress", o.Status)

	_, err = uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{})
	assert.ErrorIs(t, err, quotes.ErrAlreadyConverted)
	assert.ErrorIs(t, err, domain.ErrConflict)

	n, err := store.Orders().CountByQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConvert_Concurrente(t *testing.T) {
	uc, store := newQuotes(t)
	ctx := context.Background()
	q := createQuote(t, uc)
	_, err := uc.Approve(ctx, auth, q.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	n, _ := store.Orders().CountByQuote(ctx, q.ID)
	assert.Equal(t, 1, n)
}

func TestConvert_OverridesFinancieros(t *testing.T) {
	uc, _ := newQuotes(t)
	ctx := context.Background()
	q := createQuote(t, uc)
	_, err := uc.Approve(ctx, auth, q.ID)
	require.NoError(t, err)

	total := decimal.RequireFromString("1000")
	_, err = uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{TotalValue: &total, HasAdvance: true, AdvanceValue: decimal.RequireFromString("1200")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{TotalValue: &total, HasAdvance: true, AdvanceValue: decimal.RequireFromString("300.005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	o, err := uc.Convert(ctx, auth, q.ID, dto.ConvertQuoteRequest{TotalValue: &total, HasAdvance: true, AdvanceValue: decimal.RequireFromString("300")})
	require.NoError(t, err)
	assert.True(t, o.PendingValue.Equal(decimal.RequireFromString("700")))
}

func TestApprove_OtraEmpresa(t *testing.T) {
	uc, _ := newQuotes(t)
	q := createQuote(t, uc)

	_, err := uc.Approve(context.Background(), entity.AuthContext{CompanyID: "c-2"}, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
