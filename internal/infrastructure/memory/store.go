// Package memory implementa los puertos de repositorio en memoria.
// Se usa en tests y en desarrollo local sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// Store agrupa todas las tablas bajo un único mutex.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	companies     map[string]entity.Company
	users         map[string]entity.User
	plans         map[string]entity.Plan
	subscriptions map[string]entity.Subscription
	quotes        map[string]entity.Quote
	orders        map[string]entity.Order
	ledger        map[string]entity.FinancialTransaction
	intents       map[string]entity.ProvisioningIntent
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies:     map[string]entity.Company{},
		users:         map[string]entity.User{},
		plans:         map[string]entity.Plan{},
		subscriptions: map[string]entity.Subscription{},
		quotes:        map[string]entity.Quote{},
		orders:        map[string]entity.Order{},
		ledger:        map[string]entity.FinancialTransaction{},
		intents:       map[string]entity.ProvisioningIntent{},
	}
}

func (s *Store) Companies() *CompanyRepo          { return &CompanyRepo{s} }
func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Plans() *PlanRepo                 { return &PlanRepo{s} }
func (s *Store) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{s} }
func (s *Store) Quotes() *QuoteRepo               { return &QuoteRepo{s} }
func (s *Store) Orders() *OrderRepo               { return &OrderRepo{s} }
func (s *Store) Ledger() *LedgerRepo              { return &LedgerRepo{s} }
func (s *Store) Intents() *IntentRepo             { return &IntentRepo{s} }

// AddPlan carga un plan en el catálogo.
func (s *Store) AddPlan(p entity.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// RunOrders serializa el callback. No hay rollback: lo escrito antes de un error persiste.
func (s *Store) RunOrders(ctx context.Context, fn func(orderRepo repository.OrderRepository, ledgerRepo repository.LedgerRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.Orders(), s.Ledger())
}

// RunQuotes serializa el callback. No hay rollback.
func (s *Store) RunQuotes(ctx context.Context, fn func(quoteRepo repository.QuoteRepository, orderRepo repository.OrderRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.Quotes(), s.Orders())
}

// ── Company ───────────────────────────────────────────────────────────────────

type CompanyRepo struct{ s *Store }

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) SetBillingCustomerID(_ context.Context, id, customerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok || c.BillingCustomerID != "" {
		return false, nil
	}
	c.BillingCustomerID = customerID
	r.s.companies[id] = c
	return true, nil
}

func (r *CompanyRepo) ListTrialCandidates(_ context.Context) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.s.companies {
		if c.UnlimitedAccess || c.TrialEndDate == nil {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CompanyRepo) ListIDs(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]string, 0, len(r.s.companies))
	for id := range r.s.companies {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// ── User ──────────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListAdminsByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID == companyID && u.Role.IsAdministrative() && u.Status == "active" {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// ── Plan ──────────────────────────────────────────────────────────────────────

type PlanRepo struct{ s *Store }

var _ repository.PlanRepository = (*PlanRepo)(nil)

func (r *PlanRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PlanRepo) List(_ context.Context) ([]*entity.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Plan, 0, len(r.s.plans))
	for _, p := range r.s.plans {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationMonths < out[j].DurationMonths })
	return out, nil
}

// ── Subscription ──────────────────────────────────────────────────────────────

type SubscriptionRepo struct{ s *Store }

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

func (r *SubscriptionRepo) Create(_ context.Context, sub *entity.Subscription) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subscriptions[sub.ID]; ok {
		return false, nil
	}
	r.s.subscriptions[sub.ID] = *sub
	return true, nil
}

func (r *SubscriptionRepo) GetByID(_ context.Context, id string) (*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *SubscriptionRepo) GetLatestActive(_ context.Context, companyID string) (*entity.ActiveSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.Subscription
	for _, sub := range r.s.subscriptions {
		if sub.CompanyID != companyID || sub.Status != entity.SubscriptionActive {
			continue
		}
		if best == nil || sub.CreatedAt.After(best.CreatedAt) {
			sub := sub
			best = &sub
		}
	}
	if best == nil {
		return nil, nil
	}
	return &entity.ActiveSubscription{Subscription: *best, Plan: r.s.plans[best.PlanID]}, nil
}

func (r *SubscriptionRepo) UpdateStatus(_ context.Context, id string, status entity.SubscriptionStatus, now time.Time) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subscriptions[id]
	if !ok {
		return "", false, nil
	}
	sub.Status = status
	sub.UpdatedAt = now
	r.s.subscriptions[id] = sub
	return sub.CompanyID, true, nil
}

// ── Quote ─────────────────────────────────────────────────────────────────────

type QuoteRepo struct{ s *Store }

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

func (r *QuoteRepo) Create(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.quotes[q.ID] = *q
	return nil
}

func (r *QuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *QuoteRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.GetByID(ctx, id)
}

func (r *QuoteRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Quote
	for _, q := range r.s.quotes {
		if q.CompanyID == companyID {
			q := q
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *QuoteRepo) Approve(_ context.Context, id, companyID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[id]
	if !ok || q.CompanyID != companyID {
		return false, nil
	}
	q.Approved = true
	r.s.quotes[id] = q
	return true, nil
}

// ── Order ─────────────────────────────────────────────────────────────────────

type OrderRepo struct{ s *Store }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.QuoteID != "" {
		for _, existing := range r.s.orders {
			if existing.QuoteID == o.QuoteID {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrderRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Order, error) {
	return r.list(companyID, func(entity.Order) bool { return true }), nil
}

func (r *OrderRepo) ListCompleted(_ context.Context, companyID string) ([]*entity.Order, error) {
	return r.list(companyID, func(o entity.Order) bool { return o.Status == entity.OrderCompleted }), nil
}

func (r *OrderRepo) list(companyID string, keep func(entity.Order) bool) []*entity.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID == companyID && keep(o) {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeliveryDate.Before(out[j].DeliveryDate) })
	return out
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order, expected entity.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orders[o.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	r.s.orders[o.ID] = *o
	return true, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, from, to entity.OrderStatus, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = now
	r.s.orders[id] = o
	return true, nil
}

func (r *OrderRepo) CountByQuote(_ context.Context, quoteID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, o := range r.s.orders {
		if o.QuoteID == quoteID {
			n++
		}
	}
	return n, nil
}

// ── Ledger ────────────────────────────────────────────────────────────────────

type LedgerRepo struct{ s *Store }

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

func (r *LedgerRepo) InsertForOrder(_ context.Context, tx *entity.FinancialTransaction) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.ledger {
		if existing.OrderID != "" && existing.OrderID == tx.OrderID {
			return false, nil
		}
	}
	r.s.ledger[tx.ID] = *tx
	return true, nil
}

func (r *LedgerRepo) Create(_ context.Context, tx *entity.FinancialTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger[tx.ID] = *tx
	return nil
}

func (r *LedgerRepo) GetByID(_ context.Context, id string) (*entity.FinancialTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.ledger[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *LedgerRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.FinancialTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.FinancialTransaction
	for _, tx := range r.s.ledger {
		if tx.CompanyID == companyID {
			tx := tx
			out = append(out, &tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	return out, nil
}

func (r *LedgerRepo) SetPaid(_ context.Context, id string, paid bool, paidDate *time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.ledger[id]
	if !ok || tx.OrderID != "" {
		return false, nil
	}
	tx.Paid = paid
	tx.PaidDate = paidDate
	r.s.ledger[id] = tx
	return true, nil
}

func (r *LedgerRepo) Summary(_ context.Context, companyID string) (*entity.LedgerSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := &entity.LedgerSummary{Revenue: decimal.Zero, Expenses: decimal.Zero, PendingRevenue: decimal.Zero, PendingExpenses: decimal.Zero}
	for _, tx := range r.s.ledger {
		if tx.CompanyID != companyID {
			continue
		}
		switch {
		case tx.Type == entity.TransactionRevenue && tx.Paid:
			sum.Revenue = sum.Revenue.Add(tx.Amount)
		case tx.Type == entity.TransactionRevenue:
			sum.PendingRevenue = sum.PendingRevenue.Add(tx.Amount)
		case tx.Paid:
			sum.Expenses = sum.Expenses.Add(tx.Amount)
		default:
			sum.PendingExpenses = sum.PendingExpenses.Add(tx.Amount)
		}
	}
	return sum, nil
}

// LedgerByOrder movimientos asociados al pedido (inspección en tests).
func (s *Store) LedgerByOrder(orderID string) []entity.FinancialTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.FinancialTransaction
	for _, tx := range s.ledger {
		if tx.OrderID == orderID {
			out = append(out, tx)
		}
	}
	return out
}

// ── ProvisioningIntent ────────────────────────────────────────────────────────

type IntentRepo struct{ s *Store }

var _ repository.IntentRepository = (*IntentRepo)(nil)

func (r *IntentRepo) Create(_ context.Context, in *entity.ProvisioningIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.intents[in.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.intents[in.ID] = *in
	return nil
}

func (r *IntentRepo) Update(_ context.Context, in *entity.ProvisioningIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.intents[in.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.intents[in.ID] = *in
	return nil
}

func (r *IntentRepo) ListStale(_ context.Context, statuses []entity.IntentStatus, before time.Time) ([]*entity.ProvisioningIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProvisioningIntent
	for _, in := range r.s.intents {
		if !in.CreatedAt.Before(before) {
			continue
		}
		for _, st := range statuses {
			if in.Status == st {
				in := in
				out = append(out, &in)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Intent devuelve la intención por id (inspección en tests).
func (s *Store) Intent(id string) (entity.ProvisioningIntent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.intents[id]
	return in, ok
}
