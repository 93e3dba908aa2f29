package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// ProvisioningUseCase orquesta la creación de suscripciones en el proveedor.
// Cada intento deja un registro en provisioning_intents antes de la primera
// llamada remota; SweepIntents resuelve los que quedaron a medias.
type ProvisioningUseCase struct {
	plans     repository.PlanRepository
	companies repository.CompanyRepository
	subs      repository.SubscriptionRepository
	intents   repository.IntentRepository
	provider  Provider
	access    AccessInvalidator
	metrics   Metrics
	now       func() time.Time
	log       zerolog.Logger
}

// ProvisioningDeps dependencias del orquestador. Access y Metrics son opcionales.
type ProvisioningDeps struct {
	Plans         repository.PlanRepository
	Companies     repository.CompanyRepository
	Subscriptions repository.SubscriptionRepository
	Intents       repository.IntentRepository
	Provider      Provider
	Access        AccessInvalidator
	Metrics       Metrics
	Now           func() time.Time
	Log           zerolog.Logger
}

// NewProvisioningUseCase construye el orquestador.
func NewProvisioningUseCase(d ProvisioningDeps) *ProvisioningUseCase {
	uc := &ProvisioningUseCase{
		plans:     d.Plans,
		companies: d.Companies,
		subs:      d.Subscriptions,
		intents:   d.Intents,
		provider:  d.Provider,
		access:    d.Access,
		metrics:   d.Metrics,
		now:       d.Now,
		log:       d.Log,
	}
	if uc.access == nil {
		uc.access = nopInvalidator{}
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// ListPlans catálogo de planes.
func (uc *ProvisioningUseCase) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := uc.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanResponse{ID: p.ID, Name: p.Name, DurationMonths: p.DurationMonths, Price: p.Price})
	}
	return out, nil
}

// CreateSubscription:
//  1. valida la entrada y busca el plan
//  2. crea el cliente remoto si la empresa no tiene uno y lo guarda
//  3. calcula ciclo y primer vencimiento (mañana)
//  4. crea la suscripción remota con externalReference = id local
//  5. persiste la suscripción local en pending
//  6. con PIX, obtiene el QR del primer cobro
//
// Un fallo del paso 6 no invalida la suscripción: se responde sin pix y el QR
// se puede pedir después con GetPixPayment.
func (uc *ProvisioningUseCase) CreateSubscription(ctx context.Context, auth entity.AuthContext, in dto.CreateSubscriptionRequest) (*dto.CreateSubscriptionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	method, err := entity.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, domain.NewValidationError("payment_method", err.Error())
	}

	plan, err := uc.plans.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan %s", domain.ErrNotFound, in.PlanID)
	}
	cycle, err := CycleForMonths(plan.DurationMonths)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, auth.CompanyID)
	}

	now := uc.now()
	intent := &entity.ProvisioningIntent{
		ID:            uuid.New().String(),
		CompanyID:     company.ID,
		PlanID:        plan.ID,
		PaymentMethod: method,
		Status:        entity.IntentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.intents.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("billing: registrar intención: %w", err)
	}
	log := uc.log.With().Str("company_id", company.ID).Str("subscription_id", intent.ID).Str("plan_id", plan.ID).Logger()

	customerID, err := uc.ensureCustomer(ctx, company, in, log)
	if err != nil {
		status := entity.IntentFailed
		if errors.Is(err, domain.ErrPartialFailure) {
			status = entity.IntentOrphaned
		}
		uc.finishIntent(ctx, intent, status, err, log)
		uc.metrics.Provisioning("customer_failed")
		return nil, err
	}
	intent.RemoteCustomerID = customerID

	subIn := SubscriptionInput{
		CustomerID:        customerID,
		BillingType:       method,
		Value:             plan.Price,
		NextDueDate:       now.AddDate(0, 0, 1),
		Cycle:             cycle,
		Description:       "Assinatura " + plan.Name,
		ExternalReference: intent.ID,
	}
	if method == entity.PaymentCreditCard {
		subIn.CreditCard, subIn.HolderInfo = cardFromRequest(in)
	}
	remote, err := uc.provider.CreateSubscription(ctx, subIn)
	if err != nil {
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			uc.finishIntent(ctx, intent, entity.IntentFailed, err, log)
			uc.metrics.Provisioning("rejected")
		} else {
			// Resultado remoto desconocido: la intención queda pending para el barrido.
			uc.finishIntent(ctx, intent, entity.IntentPending, err, log)
			uc.metrics.Provisioning("unknown")
			log.Error().Err(err).Str("remote_customer_id", customerID).Msg("creación remota de suscripción sin respuesta")
		}
		return nil, err
	}
	intent.RemoteSubscriptionID = remote.ID
	uc.finishIntent(ctx, intent, entity.IntentRemoteCreated, nil, log)

	sub := &entity.Subscription{
		ID:                    intent.ID,
		CompanyID:             company.ID,
		PlanID:                plan.ID,
		Status:                entity.SubscriptionPending,
		StartDate:             now,
		EndDate:               now.AddDate(0, plan.DurationMonths, 0),
		PaymentMethod:         method,
		BillingSubscriptionID: remote.ID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := uc.subs.Create(ctx, sub); err != nil {
		uc.metrics.Provisioning("partial_failure")
		log.Error().Err(err).
			Str("remote_customer_id", customerID).
			Str("remote_subscription_id", remote.ID).
			Msg("suscripción remota creada sin fila local; queda para el barrido de intenciones")
		return nil, fmt.Errorf("%w: suscripción remota %s: %w", domain.ErrPartialFailure, remote.ID, err)
	}
	uc.finishIntent(ctx, intent, entity.IntentFulfilled, nil, log)
	uc.access.Invalidate(ctx, company.ID)
	uc.metrics.Provisioning("created")
	log.Info().Str("remote_subscription_id", remote.ID).Str("payment_method", string(method)).Msg("suscripción creada")

	out := &dto.CreateSubscriptionResponse{
		SubscriptionID:                sub.ID,
		BillingProviderSubscriptionID: remote.ID,
		Status:                        remote.Status,
	}
	if out.Status == "" {
		out.Status = string(sub.Status)
	}
	if method == entity.PaymentPix {
		pix, err := uc.fetchPix(ctx, remote.ID)
		if err != nil {
			log.Warn().Err(err).Msg("no se pudo obtener el QR PIX; disponible luego en /api/subscriptions/:id/pix")
		}
		out.Pix = pix
	}
	return out, nil
}

// ensureCustomer devuelve el cliente remoto de la empresa, creándolo si falta.
// Si otra solicitud lo fijó en paralelo se usa el existente y el recién creado queda huérfano.
func (uc *ProvisioningUseCase) ensureCustomer(ctx context.Context, company *entity.Company, in dto.CreateSubscriptionRequest, log zerolog.Logger) (string, error) {
	if company.HasBillingCustomer() {
		return company.BillingCustomerID, nil
	}
	customerID, err := uc.provider.CreateCustomer(ctx, CustomerInput{
		Name:              firstNonEmpty(in.CustomerName, company.Name),
		Email:             firstNonEmpty(in.CustomerEmail, company.Email),
		CpfCnpj:           firstNonEmpty(in.CustomerCpfCnpj, company.Document),
		ExternalReference: company.ID,
	})
	if err != nil {
		return "", err
	}
	set, err := uc.companies.SetBillingCustomerID(ctx, company.ID, customerID)
	if err != nil {
		log.Error().Err(err).Str("remote_customer_id", customerID).Msg("cliente remoto creado sin persistir en la empresa")
		return "", fmt.Errorf("%w: cliente remoto %s: %w", domain.ErrPartialFailure, customerID, err)
	}
	if !set {
		current, err := uc.companies.GetByID(ctx, company.ID)
		if err != nil {
			return "", err
		}
		if current == nil || !current.HasBillingCustomer() {
			return "", fmt.Errorf("%w: empresa %s", domain.ErrNotFound, company.ID)
		}
		log.Error().Str("remote_customer_id", customerID).Str("kept_customer_id", current.BillingCustomerID).
			Msg("cliente remoto duplicado por solicitudes concurrentes; se conserva el existente")
		return current.BillingCustomerID, nil
	}
	return customerID, nil
}

func (uc *ProvisioningUseCase) finishIntent(ctx context.Context, intent *entity.ProvisioningIntent, status entity.IntentStatus, cause error, log zerolog.Logger) {
	intent.Status = status
	intent.UpdatedAt = uc.now()
	if cause != nil {
		intent.LastError = cause.Error()
	}
	if err := uc.intents.Update(ctx, intent); err != nil {
		log.Error().Err(err).Str("intent_status", string(status)).Msg("no se pudo actualizar la intención de aprovisionamiento")
	}
}

// ── PIX ───────────────────────────────────────────────────────────────────────

// GetPixPayment vuelve a consultar el QR PIX del primer cobro de la suscripción.
func (uc *ProvisioningUseCase) GetPixPayment(ctx context.Context, auth entity.AuthContext, subscriptionID string) (*dto.PixPaymentResponse, error) {
	if !domain.ValidID(subscriptionID) {
		return nil, domain.ErrNotFound
	}
	sub, err := uc.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.CompanyID != auth.CompanyID || sub.BillingSubscriptionID == "" {
		return nil, domain.ErrNotFound
	}
	if sub.PaymentMethod != entity.PaymentPix {
		return nil, domain.NewValidationError("subscription_id", "la suscripción no se paga con PIX")
	}
	pix, err := uc.fetchPix(ctx, sub.BillingSubscriptionID)
	if err != nil {
		return nil, err
	}
	if pix == nil {
		return nil, fmt.Errorf("%w: la suscripción aún no tiene cobros", domain.ErrNotFound)
	}
	return pix, nil
}

// fetchPix devuelve (nil, nil) si la suscripción aún no generó cobros.
func (uc *ProvisioningUseCase) fetchPix(ctx context.Context, remoteSubscriptionID string) (*dto.PixPaymentResponse, error) {
	payments, err := uc.provider.ListSubscriptionPayments(ctx, remoteSubscriptionID)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, nil
	}
	first := payments[0]
	qr, err := uc.provider.GetPixQRCode(ctx, first.ID)
	if err != nil {
		return nil, err
	}
	return &dto.PixPaymentResponse{
		PaymentID:      first.ID,
		QRCode:         qr.EncodedImage,
		CopyPaste:      qr.Payload,
		ExpirationDate: qr.ExpirationDate,
	}, nil
}

// ── Barrido de intenciones ────────────────────────────────────────────────────

// IntentSweepResult resultado de SweepIntents.
type IntentSweepResult struct {
	Fulfilled int `json:"fulfilled"`
	Orphaned  int `json:"orphaned"`
}

// SweepIntents resuelve intenciones más viejas que olderThan:
// remote_created → crea la fila local que faltó y pasa a fulfilled;
// pending → el resultado remoto es desconocido, pasa a orphaned y se alerta.
func (uc *ProvisioningUseCase) SweepIntents(ctx context.Context, olderThan time.Duration) (*IntentSweepResult, error) {
	now := uc.now()
	stale, err := uc.intents.ListStale(ctx, []entity.IntentStatus{entity.IntentRemoteCreated, entity.IntentPending}, now.Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("billing: listar intenciones: %w", err)
	}
	res := &IntentSweepResult{}
	var firstErr error
	for _, intent := range stale {
		log := uc.log.With().
			Str("company_id", intent.CompanyID).
			Str("subscription_id", intent.ID).
			Str("remote_customer_id", intent.RemoteCustomerID).
			Str("remote_subscription_id", intent.RemoteSubscriptionID).
			Logger()

		if intent.Status == entity.IntentRemoteCreated && intent.RemoteSubscriptionID != "" {
			if err := uc.completeIntent(ctx, intent, now); err != nil {
				log.Error().Err(err).Msg("no se pudo completar la intención")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			uc.finishIntent(ctx, intent, entity.IntentFulfilled, nil, log)
			uc.access.Invalidate(ctx, intent.CompanyID)
			uc.metrics.IntentSwept(string(entity.IntentFulfilled))
			log.Info().Msg("suscripción local recuperada desde la intención")
			res.Fulfilled++
			continue
		}

		uc.finishIntent(ctx, intent, entity.IntentOrphaned, nil, log)
		uc.metrics.IntentSwept(string(entity.IntentOrphaned))
		log.Error().Str("last_error", intent.LastError).Msg("intención huérfana: revisar objetos remotos en el proveedor")
		res.Orphaned++
	}
	return res, firstErr
}

func (uc *ProvisioningUseCase) completeIntent(ctx context.Context, intent *entity.ProvisioningIntent, now time.Time) error {
	months := 1
	plan, err := uc.plans.GetByID(ctx, intent.PlanID)
	if err != nil {
		return err
	}
	if plan != nil {
		months = plan.DurationMonths
	}
	start := intent.CreatedAt
	_, err = uc.subs.Create(ctx, &entity.Subscription{
		ID:                    intent.ID,
		CompanyID:             intent.CompanyID,
		PlanID:                intent.PlanID,
		Status:                entity.SubscriptionPending,
		StartDate:             start,
		EndDate:               start.AddDate(0, months, 0),
		PaymentMethod:         intent.PaymentMethod,
		BillingSubscriptionID: intent.RemoteSubscriptionID,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	return err
}

func cardFromRequest(in dto.CreateSubscriptionRequest) (*CreditCard, *CardHolderInfo) {
	var card *CreditCard
	if c := in.CreditCard; c != nil {
		card = &CreditCard{HolderName: c.HolderName, Number: c.Number, ExpiryMonth: c.ExpiryMonth, ExpiryYear: c.ExpiryYear, CCV: c.CCV}
	}
	var holder *CardHolderInfo
	if h := in.CreditCardHolderInfo; h != nil {
		holder = &CardHolderInfo{Name: h.Name, Email: h.Email, CpfCnpj: h.CpfCnpj, PostalCode: h.PostalCode, AddressNumber: h.AddressNumber, Phone: h.Phone}
	}
	return card, holder
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
