package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID                string
	Name              string
	Document          string // CPF/CNPJ
	Email             string
	TrialEndDate      *time.Time // nil = sin período de prueba
	UnlimitedAccess   bool       // omite suscripción y prueba
	BillingCustomerID string     // id del cliente en el proveedor de cobros; se fija una sola vez
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasBillingCustomer informa si la empresa ya tiene cliente en el proveedor.
func (c *Company) HasBillingCustomer() bool {
	return c.BillingCustomerID != ""
}
