// Package access calcula el estado de acceso (paywall) de una empresa a partir
// de los datos persistidos. No tiene efectos secundarios.
package access

import (
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// Status resultado del resolver.
type Status string

const (
	StatusUnlimited Status = "unlimited"
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusExpired   Status = "expired"
)

// Result estado de acceso de una empresa en un instante dado.
type Result struct {
	Status       Status     `json:"status"`
	IsActive     bool       `json:"is_active"`
	TrialEndDate *time.Time `json:"trial_end_date,omitempty"`
}

// Resolve aplica las reglas en orden; la primera que coincide gana:
//  1. rol superadmin → unlimited
//  2. empresa con acceso ilimitado → unlimited
//  3. suscripción activa con EndDate > now → active
//  4. TrialEndDate > now → trial
//  5. expired
//
// sub puede ser nil. Siempre devuelve exactamente un estado.
func Resolve(role entity.Role, company entity.Company, sub *entity.ActiveSubscription, now time.Time) Result {
	if role == entity.RoleSuperadmin {
		return Result{Status: StatusUnlimited, IsActive: true}
	}
	if company.UnlimitedAccess {
		return Result{Status: StatusUnlimited, IsActive: true}
	}
	trialEnd := company.TrialEndDate
	if sub != nil && sub.Status == entity.SubscriptionActive && sub.EndDate.After(now) {
		return Result{Status: StatusActive, IsActive: true, TrialEndDate: trialEnd}
	}
	if trialEnd != nil && trialEnd.After(now) {
		return Result{Status: StatusTrial, IsActive: true, TrialEndDate: trialEnd}
	}
	return Result{Status: StatusExpired, IsActive: false, TrialEndDate: trialEnd}
}
