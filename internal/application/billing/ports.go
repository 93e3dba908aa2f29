package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// ── Puerto del proveedor de cobros ───────────────────────────────────────────

// Provider API REST del proveedor de cobros. Los errores de negocio del
// proveedor llegan como *domain.ProviderError; cualquier otro error (red,
// timeout) deja el resultado remoto desconocido.
type Provider interface {
	CreateCustomer(ctx context.Context, in CustomerInput) (customerID string, err error)
	CreateSubscription(ctx context.Context, in SubscriptionInput) (*RemoteSubscription, error)
	ListSubscriptionPayments(ctx context.Context, subscriptionID string) ([]RemotePayment, error)
	GetPixQRCode(ctx context.Context, paymentID string) (*PixQRCode, error)
}

// CustomerInput alta de cliente remoto.
type CustomerInput struct {
	Name              string
	Email             string
	CpfCnpj           string
	ExternalReference string // id de la empresa
}

// CreditCard datos de tarjeta; solo viajan al proveedor.
type CreditCard struct {
	HolderName  string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CCV         string
}

// CardHolderInfo titular de la tarjeta.
type CardHolderInfo struct {
	Name          string
	Email         string
	CpfCnpj       string
	PostalCode    string
	AddressNumber string
	Phone         string
}

// SubscriptionInput alta de suscripción remota.
type SubscriptionInput struct {
	CustomerID        string
	BillingType       entity.PaymentMethod
	Value             decimal.Decimal
	NextDueDate       time.Time
	Cycle             Cycle
	Description       string
	ExternalReference string // id de la suscripción local
	CreditCard        *CreditCard
	HolderInfo        *CardHolderInfo
}

// RemoteSubscription respuesta del proveedor al crear la suscripción.
type RemoteSubscription struct {
	ID     string
	Status string
}

// RemotePayment cobro generado por una suscripción remota.
type RemotePayment struct {
	ID      string
	Status  string
	DueDate string
}

// PixQRCode QR PIX de un cobro.
type PixQRCode struct {
	EncodedImage   string
	Payload        string
	ExpirationDate string
}

// ── Otros puertos ────────────────────────────────────────────────────────────

// AccessInvalidator descarta el estado de acceso cacheado de una empresa.
type AccessInvalidator interface {
	Invalidate(ctx context.Context, companyID string)
}

// Metrics contadores de facturación.
type Metrics interface {
	WebhookEvent(event, outcome string)
	Provisioning(outcome string)
	IntentSwept(status string)
	TrialNotice(kind string)
}

// Notifier envío de avisos por correo.
type Notifier interface {
	SendTrialNotice(ctx context.Context, n TrialNotice) error
}

type nopMetrics struct{}

func (nopMetrics) WebhookEvent(string, string) {}
func (nopMetrics) Provisioning(string)         {}
func (nopMetrics) IntentSwept(string)          {}
func (nopMetrics) TrialNotice(string)          {}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, string) {}
