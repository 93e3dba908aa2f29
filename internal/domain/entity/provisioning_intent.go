package entity

import "time"

// IntentStatus estado del registro outbox de aprovisionamiento.
type IntentStatus string

const (
	IntentPending       IntentStatus = "pending"        // escrito antes de cualquier llamada remota
	IntentRemoteCreated IntentStatus = "remote_created" // suscripción remota creada, falta la fila local
	IntentFulfilled     IntentStatus = "fulfilled"
	IntentFailed        IntentStatus = "failed"   // el proveedor rechazó la creación
	IntentOrphaned      IntentStatus = "orphaned" // resultado remoto desconocido; requiere operador
)

// ProvisioningIntent intención de crear una suscripción remota. Su ID es el ID
// de la suscripción local y viaja al proveedor como externalReference.
type ProvisioningIntent struct {
	ID                   string
	CompanyID            string
	PlanID               string
	PaymentMethod        PaymentMethod
	Status               IntentStatus
	RemoteCustomerID     string
	RemoteSubscriptionID string
	LastError            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
