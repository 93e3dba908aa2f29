package billing

import (
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain"
)

// Cycle periodicidad de cobro del proveedor.
type Cycle string

const (
	CycleMonthly      Cycle = "MONTHLY"
	CycleBimonthly    Cycle = "BIMONTHLY"
	CycleQuarterly    Cycle = "QUARTERLY"
	CycleSemiannually Cycle = "SEMIANNUALLY"
	CycleYearly       Cycle = "YEARLY"
)

// CycleForMonths traduce la duración del plan a un ciclo del proveedor.
// Duraciones sin ciclo equivalente se rechazan.
func CycleForMonths(months int) (Cycle, error) {
	switch months {
	case 1:
		return CycleMonthly, nil
	case 2:
		return CycleBimonthly, nil
	case 3:
		return CycleQuarterly, nil
	case 6:
		return CycleSemiannually, nil
	case 12:
		return CycleYearly, nil
	}
	return "", domain.NewValidationError("plan_id", fmt.Sprintf("duración de plan sin ciclo de cobro: %d meses", months))
}
