package access_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pedidos-api/internal/domain/access"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func activeSub(end time.Time) *entity.ActiveSubscription {
	return &entity.ActiveSubscription{Subscription: entity.Subscription{
		ID: "sub-1", Status: entity.SubscriptionActive, EndDate: end,
	}}
}

// Escenario A: prueba vigente sin suscripción.
func TestResolve_TrialVigente(t *testing.T) {
	company := entity.Company{ID: "c1", TrialEndDate: ptr(now.AddDate(0, 0, 5))}

	got := access.Resolve(entity.RoleUser, company, nil, now)

	assert.Equal(t, access.StatusTrial, got.Status)
	assert.True(t, got.IsActive)
	assert.Equal(t, company.TrialEndDate, got.TrialEndDate)
}

// Escenario B: acceso ilimitado por empresa.
func TestResolve_EmpresaIlimitada(t *testing.T) {
	company := entity.Company{ID: "c1", UnlimitedAccess: true}

	got := access.Resolve(entity.RoleUser, company, nil, now)

	assert.Equal(t, access.StatusUnlimited, got.Status)
	assert.True(t, got.IsActive)
}

func TestResolve_SuperadminSiempreIlimitado(t *testing.T) {
	company := entity.Company{ID: "c1", TrialEndDate: ptr(now.AddDate(0, 0, -40))}

	got := access.Resolve(entity.RoleSuperadmin, company, nil, now)

	assert.Equal(t, access.StatusUnlimited, got.Status)
	assert.True(t, got.IsActive)
}

func TestResolve_SuscripcionVencidaCaeATrialOExpired(t *testing.T) {
	company := entity.Company{ID: "c1", TrialEndDate: ptr(now.AddDate(0, 0, -1))}

	got := access.Resolve(entity.RoleAdmin, company, activeSub(now.Add(-time.Hour)), now)

	assert.Equal(t, access.StatusExpired, got.Status)
	assert.False(t, got.IsActive)
}

func TestResolve_FinExactamenteAhoraNoEsActivo(t *testing.T) {
	company := entity.Company{ID: "c1"}

	got := access.Resolve(entity.RoleUser, company, activeSub(now), now)

	assert.Equal(t, access.StatusExpired, got.Status)
}

// Para toda combinación se devuelve exactamente un estado con prioridad
// unlimited > active > trial > expired.
func TestResolve_PrioridadTotal(t *testing.T) {
	roles := []entity.Role{entity.RoleSuperadmin, entity.RoleAdmin, entity.RoleUser}
	subs := map[string]*entity.ActiveSubscription{
		"none":   nil,
		"future": activeSub(now.AddDate(0, 1, 0)),
		"past":   activeSub(now.AddDate(0, -1, 0)),
	}
	trials := map[string]*time.Time{
		"none":   nil,
		"future": ptr(now.AddDate(0, 0, 3)),
		"past":   ptr(now.AddDate(0, 0, -3)),
	}

	for _, role := range roles {
		for _, unlimited := range []bool{true, false} {
			for subName, sub := range subs {
				for trialName, trial := range trials {
					company := entity.Company{ID: "c", UnlimitedAccess: unlimited, TrialEndDate: trial}
					got := access.Resolve(role, company, sub, now)

					var want access.Status
					switch {
					case role == entity.RoleSuperadmin || unlimited:
						want = access.StatusUnlimited
					case subName == "future":
						want = access.StatusActive
					case trialName == "future":
						want = access.StatusTrial
					default:
						want = access.StatusExpired
					}
					assert.Equal(t, want, got.Status, "role=%s unlimited=%v sub=%s trial=%s", role, unlimited, subName, trialName)
					assert.Equal(t, want != access.StatusExpired, got.IsActive)
				}
			}
		}
	}
}
