package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan catálogo inmutable de planes de suscripción.
type Plan struct {
	ID             string
	Name           string
	DurationMonths int
	Price          decimal.Decimal
	CreatedAt      time.Time
}
