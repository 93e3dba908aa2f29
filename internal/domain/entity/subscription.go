package entity

import (
	"fmt"
	"strings"
	"time"
)

// SubscriptionStatus estado local de una suscripción.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionOverdue   SubscriptionStatus = "overdue"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// ParseSubscriptionStatus rechaza tokens desconocidos en el borde del store.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch st := SubscriptionStatus(s); st {
	case SubscriptionPending, SubscriptionActive, SubscriptionOverdue, SubscriptionExpired, SubscriptionCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de suscripción desconocido %q", s)
}

// PaymentMethod forma de pago aceptada por el proveedor.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentPix        PaymentMethod = "PIX"
)

// ParsePaymentMethod acepta el token del proveedor o su forma persistida en minúsculas.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(strings.ToUpper(s)); pm {
	case PaymentCreditCard, PaymentPix:
		return pm, nil
	}
	return "", fmt.Errorf("método de pago desconocido %q", s)
}

// Stored es la forma en que se persiste el método (minúsculas).
func (pm PaymentMethod) Stored() string {
	return strings.ToLower(string(pm))
}

// Subscription registro local (sombra) de una suscripción del proveedor.
// Nunca se elimina; las nuevas la reemplazan.
type Subscription struct {
	ID                    string
	CompanyID             string
	PlanID                string
	Status                SubscriptionStatus
	StartDate             time.Time
	EndDate               time.Time
	PaymentMethod         PaymentMethod
	BillingSubscriptionID string // vacío hasta que el proveedor confirme
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ActiveSubscription suscripción activa más reciente con su plan.
type ActiveSubscription struct {
	Subscription
	Plan Plan
}
