package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo sombra local de las suscripciones del proveedor.
type SubscriptionRepo struct {
	db Querier
}

// NewSubscriptionRepository construye el adaptador de suscripciones.
func NewSubscriptionRepository(db Querier) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

const subscriptionColumns = `s.id, s.company_id, s.plan_id, s.status, s.start_date, s.end_date, s.payment_method, s.billing_subscription_id, s.created_at, s.updated_at`

// Create es idempotente por id: el barrido de intenciones puede reintentar.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) (bool, error) {
	const query = `
		INSERT INTO subscriptions (id, company_id, plan_id, status, start_date, end_date, payment_method, billing_subscription_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`
	cmd, err := r.db.Exec(ctx, query,
		sub.ID, sub.CompanyID, sub.PlanID, string(sub.Status), sub.StartDate, sub.EndDate,
		sub.PaymentMethod.Stored(), nullString(sub.BillingSubscriptionID), sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions s WHERE s.id = $1`
	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// GetLatestActive suscripción activa más reciente junto con su plan.
func (r *SubscriptionRepo) GetLatestActive(ctx context.Context, companyID string) (*entity.ActiveSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `, p.id, p.name, p.duration_months, p.price, p.created_at
		  FROM subscriptions s
		  JOIN plans p ON p.id = s.plan_id
		 WHERE s.company_id = $1 AND s.status = 'active'
		 ORDER BY s.created_at DESC
		 LIMIT 1`
	var (
		out    entity.ActiveSubscription
		status string
		method string
		remote *string
	)
	err := r.db.QueryRow(ctx, query, companyID).Scan(
		&out.ID, &out.CompanyID, &out.PlanID, &status, &out.StartDate, &out.EndDate, &method, &remote,
		&out.CreatedAt, &out.UpdatedAt,
		&out.Plan.ID, &out.Plan.Name, &out.Plan.DurationMonths, &out.Plan.Price, &out.Plan.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active subscription: %w", err)
	}
	if err := fillSubscription(&out.Subscription, status, method, remote); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus escritura incondicional usada por el webhook.
func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, id string, status entity.SubscriptionStatus, now time.Time) (string, bool, error) {
	const query = `
		UPDATE subscriptions SET status = $2, updated_at = $3
		 WHERE id = $1
		RETURNING company_id`
	var companyID string
	if err := r.db.QueryRow(ctx, query, id, string(status), now).Scan(&companyID); err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("update subscription status: %w", err)
	}
	return companyID, true, nil
}

func scanSubscription(row rowScanner) (*entity.Subscription, error) {
	var (
		sub    entity.Subscription
		status string
		method string
		remote *string
	)
	if err := row.Scan(
		&sub.ID, &sub.CompanyID, &sub.PlanID, &status, &sub.StartDate, &sub.EndDate, &method, &remote,
		&sub.CreatedAt, &sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := fillSubscription(&sub, status, method, remote); err != nil {
		return nil, err
	}
	return &sub, nil
}

func fillSubscription(sub *entity.Subscription, status, method string, remote *string) error {
	st, err := entity.ParseSubscriptionStatus(status)
	if err != nil {
		return fmt.Errorf("subscription %s: %w", sub.ID, err)
	}
	pm, err := entity.ParsePaymentMethod(method)
	if err != nil {
		return fmt.Errorf("subscription %s: %w", sub.ID, err)
	}
	sub.Status = st
	sub.PaymentMethod = pm
	sub.BillingSubscriptionID = derefString(remote)
	return nil
}
