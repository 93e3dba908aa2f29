package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.IntentRepository = (*IntentRepo)(nil)

// IntentRepo outbox de aprovisionamiento (provisioning_intents).
type IntentRepo struct {
	db Querier
}

// NewIntentRepository construye el adaptador del outbox.
func NewIntentRepository(db Querier) *IntentRepo {
	return &IntentRepo{db: db}
}

func (r *IntentRepo) Create(ctx context.Context, in *entity.ProvisioningIntent) error {
	const query = `
		INSERT INTO provisioning_intents (id, company_id, plan_id, payment_method, status, remote_customer_id, remote_subscription_id, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		in.ID, in.CompanyID, in.PlanID, in.PaymentMethod.Stored(), string(in.Status),
		nullString(in.RemoteCustomerID), nullString(in.RemoteSubscriptionID), nullString(in.LastError),
		in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert intent: %w", err)
	}
	return nil
}

func (r *IntentRepo) Update(ctx context.Context, in *entity.ProvisioningIntent) error {
	const query = `
		UPDATE provisioning_intents
		   SET status = $2, remote_customer_id = $3, remote_subscription_id = $4, last_error = $5, updated_at = $6
		 WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		in.ID, string(in.Status), nullString(in.RemoteCustomerID), nullString(in.RemoteSubscriptionID),
		nullString(in.LastError), in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update intent: %w", err)
	}
	return nil
}

func (r *IntentRepo) ListStale(ctx context.Context, statuses []entity.IntentStatus, before time.Time) ([]*entity.ProvisioningIntent, error) {
	tokens := make([]string, 0, len(statuses))
	for _, st := range statuses {
		tokens = append(tokens, string(st))
	}
	const query = `
		SELECT id, company_id, plan_id, payment_method, status, remote_customer_id, remote_subscription_id, last_error, created_at, updated_at
		  FROM provisioning_intents
		 WHERE status = ANY($1) AND created_at < $2
		 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, tokens, before)
	if err != nil {
		return nil, fmt.Errorf("list stale intents: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProvisioningIntent
	for rows.Next() {
		var (
			in                          entity.ProvisioningIntent
			method, status              string
			customer, remote, lastError *string
		)
		if err := rows.Scan(&in.ID, &in.CompanyID, &in.PlanID, &method, &status, &customer, &remote, &lastError, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan intent: %w", err)
		}
		pm, err := entity.ParsePaymentMethod(method)
		if err != nil {
			return nil, fmt.Errorf("intent %s: %w", in.ID, err)
		}
		in.PaymentMethod = pm
		in.Status = entity.IntentStatus(status)
		in.RemoteCustomerID = derefString(customer)
		in.RemoteSubscriptionID = derefString(remote)
		in.LastError = derefString(lastError)
		list = append(list, &in)
	}
	return list, rows.Err()
}
