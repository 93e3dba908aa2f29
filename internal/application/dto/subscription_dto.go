package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCardRequest datos de tarjeta. Se reenvían al proveedor y nunca se persisten ni se registran en logs.
type CreditCardRequest struct {
	HolderName  string `json:"holder_name" validate:"required,min=1,max=100"`
	Number      string `json:"number" validate:"required,number,min=13,max=19"`
	ExpiryMonth string `json:"expiry_month" validate:"required,oneof=01 02 03 04 05 06 07 08 09 10 11 12"`
	ExpiryYear  string `json:"expiry_year" validate:"required,number,len=4"`
	CCV         string `json:"ccv" validate:"required,number,min=3,max=4"`
}

// CreditCardHolderInfoRequest titular de la tarjeta.
type CreditCardHolderInfoRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=100"`
	Email         string `json:"email" validate:"required,email"`
	CpfCnpj       string `json:"cpf_cnpj" validate:"required,min=11,max=18"`
	PostalCode    string `json:"postal_code" validate:"required,min=8,max=9"`
	AddressNumber string `json:"address_number" validate:"required,min=1,max=10"`
	Phone         string `json:"phone" validate:"required,min=10,max=15"`
}

// CreateSubscriptionRequest body para POST /api/subscriptions.
// credit_card es obligatorio cuando payment_method = CREDIT_CARD.
type CreateSubscriptionRequest struct {
	PlanID               string                       `json:"plan_id" validate:"required,uuid"`
	PaymentMethod        string                       `json:"payment_method" validate:"required,oneof=CREDIT_CARD PIX"`
	CustomerName         string                       `json:"customer_name,omitempty" validate:"omitempty,min=1,max=100"`
	CustomerEmail        string                       `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerCpfCnpj      string                       `json:"customer_cpf_cnpj,omitempty" validate:"omitempty,min=11,max=18"`
	CreditCard           *CreditCardRequest           `json:"credit_card,omitempty" validate:"required_if=PaymentMethod CREDIT_CARD"`
	CreditCardHolderInfo *CreditCardHolderInfoRequest `json:"credit_card_holder_info,omitempty"`
}

// PixPaymentResponse datos del primer cobro PIX.
type PixPaymentResponse struct {
	PaymentID      string `json:"payment_id"`
	QRCode         string `json:"qr_code"`    // imagen PNG en base64
	CopyPaste      string `json:"copy_paste"` // payload "copia e cola"
	ExpirationDate string `json:"expiration_date"`
}

// CreateSubscriptionResponse resultado del aprovisionamiento.
// Pix nil con payment_method PIX indica que el QR debe pedirse por GET /api/subscriptions/:id/pix.
type CreateSubscriptionResponse struct {
	SubscriptionID                string              `json:"subscription_id"`
	BillingProviderSubscriptionID string              `json:"billing_provider_subscription_id"`
	Status                        string              `json:"status"`
	Pix                           *PixPaymentResponse `json:"pix,omitempty"`
}

// AccessStatusResponse salida del resolvedor de acceso.
type AccessStatusResponse struct {
	Status       string     `json:"status"`
	IsActive     bool       `json:"is_active"`
	TrialEndDate *time.Time `json:"trial_end_date,omitempty"`
}

// PlanResponse plan del catálogo.
type PlanResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DurationMonths int             `json:"duration_months"`
	Price          decimal.Decimal `json:"price"`
}

// WebhookAck respuesta al proveedor tras una firma válida.
type WebhookAck struct {
	Received bool `json:"received"`
}

// WebhookError respuesta de error del webhook (contrato del proveedor).
type WebhookError struct {
	Error string `json:"error"`
}
