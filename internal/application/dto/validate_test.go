package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
)

const planID = "9b2f8c1e-4d3a-4f6b-9a51-2c7e8d1f0a33"

func validCard() *dto.CreditCardRequest {
	return &dto.CreditCardRequest{
		HolderName:  "MARIA SILVA",
		Number:      "4111111111111111",
		ExpiryMonth: "07",
		ExpiryYear:  "2031",
		CCV:         "123",
	}
}

func TestValidate_SubscriptionPix(t *testing.T) {
	err := dto.Validate(dto.CreateSubscriptionRequest{PlanID: planID, PaymentMethod: "PIX"})
	assert.NoError(t, err)
}

func TestValidate_SubscriptionCardObligatoria(t *testing.T) {
	err := dto.Validate(dto.CreateSubscriptionRequest{PlanID: planID, PaymentMethod: "CREDIT_CARD"})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "credit_card", verr.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_SubscriptionCampos(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(r *dto.CreateSubscriptionRequest)
		field string
	}{
		{"plan no uuid", func(r *dto.CreateSubscriptionRequest) { r.PlanID = "plan-1" }, "plan_id"},
		{"metodo desconocido", func(r *dto.CreateSubscriptionRequest) { r.PaymentMethod = "BOLETO" }, "payment_method"},
		{"numero con letras", func(r *dto.CreateSubscriptionRequest) { r.CreditCard.Number = "4111x11111111111" }, "credit_card.number"},
		{"numero corto", func(r *dto.CreateSubscriptionRequest) { r.CreditCard.Number = "411111111111" }, "credit_card.number"},
		{"mes 13", func(r *dto.CreateSubscriptionRequest) { r.CreditCard.ExpiryMonth = "13" }, "credit_card.expiry_month"},
		{"mes sin cero", func(r *dto.CreateSubscriptionRequest) { r.CreditCard.ExpiryMonth = "7" }, "credit_card.expiry_month"},
		{"año de dos digitos", func(r *dto.CreateSubscriptionRequest) { r.CreditCard.ExpiryYear = "31" }, "credit_card.expiry_year"},
		{"ccv largo", func(r *dto.CreateSubscriptionRequest) { r.CreditCard.CCV = "12345" }, "credit_card.ccv"},
		{"email cliente", func(r *dto.CreateSubscriptionRequest) { r.CustomerEmail = "no-es-email" }, "customer_email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := dto.CreateSubscriptionRequest{PlanID: planID, PaymentMethod: "CREDIT_CARD", CreditCard: validCard()}
			require.NoError(t, dto.Validate(r))

			tc.mut(&r)
			err := dto.Validate(r)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "se esperaba ValidationError, fue %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidate_OrderFecha(t *testing.T) {
	in := dto.CreateOrderRequest{Code: "P-1", Description: "Bolo", DeliveryDate: "2026-13-01"}

	var verr *domain.ValidationError
	require.True(t, errors.As(dto.Validate(in), &verr))
	assert.Equal(t, "delivery_date", verr.Field)
}
