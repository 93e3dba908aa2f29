// Package bootstrap arma los casos de uso sobre PostgreSQL, Redis, Asaas y Postmark
// a partir de la configuración. Lo comparten el servidor HTTP y billingctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/access"
	"github.com/jhoicas/pedidos-api/internal/application/auth"
	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/application/ledger"
	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/application/quotes"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/asaas"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/cache"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/email"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/metrics"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/pedidos-api/pkg/config"
)

// Container casos de uso listos para usar y los recursos que hay que cerrar.
type Container struct {
	Pool    *pgxpool.Pool
	Redis   *redis.Client // nil si REDIS_ADDR está vacío
	Metrics *metrics.Recorder

	Auth          *auth.AuthUseCase
	Access        *access.UseCase
	Provisioning  *billing.ProvisioningUseCase
	Webhook       *billing.WebhookUseCase
	TrialNotifier *billing.TrialNotifier
	Orders        *orders.UseCase
	Quotes        *quotes.UseCase
	Ledger        *ledger.UseCase

	cfg *config.Config
	log zerolog.Logger
}

// New abre el pool (y Redis si está configurado) y construye los casos de uso.
// No ejecuta migraciones.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c := &Container{Pool: pool, Metrics: metrics.New(), cfg: cfg, log: log}

	var statusCache access.StatusCache
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			pool.Close()
			return nil, err
		}
		c.Redis = client
		statusCache = cache.NewRedisStatusCache(client)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: caché de acceso en memoria del proceso")
		statusCache = memory.NewStatusCache(time.Now)
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	intentRepo := postgres.NewIntentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	c.Access = access.NewUseCase(companyRepo, subRepo, statusCache, cfg.Redis.StatusTTL, time.Now, log.With().Str("component", "access").Logger())

	c.Auth = auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Billing.TrialDays, time.Now, log.With().Str("component", "auth").Logger())

	billingLog := log.With().Str("component", "billing").Logger()
	if cfg.Asaas.APIKey == "" {
		billingLog.Warn().Msg("ASAAS_API_KEY vacío: la contratación de planes fallará")
	}
	if cfg.Asaas.WebhookToken == "" {
		billingLog.Warn().Msg("ASAAS_WEBHOOK_TOKEN vacío: todos los webhooks serán rechazados")
	}
	c.Provisioning = billing.NewProvisioningUseCase(billing.ProvisioningDeps{
		Plans:         planRepo,
		Companies:     companyRepo,
		Subscriptions: subRepo,
		Intents:       intentRepo,
		Provider:      asaas.NewClient(cfg.Asaas.APIURL, cfg.Asaas.APIKey, cfg.Asaas.Timeout, billingLog),
		Access:        c.Access,
		Metrics:       c.Metrics,
		Now:           time.Now,
		Log:           billingLog,
	})
	c.Webhook = billing.NewWebhookUseCase(cfg.Asaas.WebhookToken, subRepo, c.Access, c.Metrics, time.Now, billingLog)

	var notifier billing.Notifier
	pm, err := email.NewPostmarkNotifier(cfg.Postmark.ServerToken, cfg.Postmark.From, billingLog)
	switch {
	case errors.Is(err, email.ErrNotConfigured):
		billingLog.Warn().Msg("Postmark sin configurar: los avisos de prueba solo se registran")
		notifier = email.LogNotifier{Log: billingLog}
	case err != nil:
		c.Close()
		return nil, err
	default:
		notifier = pm
	}
	c.TrialNotifier = billing.NewTrialNotifier(companyRepo, userRepo, subRepo, notifier, c.Metrics, time.Now, billingLog)

	ledgerLog := log.With().Str("component", "ledger").Logger()
	c.Ledger = ledger.NewUseCase(ledgerRepo, orderRepo, companyRepo, c.Metrics, time.Now, ledgerLog)
	c.Orders = orders.NewUseCase(orders.Deps{
		Orders:    orderRepo,
		Companies: companyRepo,
		Tx:        txRunner,
		Sweeper:   c.Ledger,
		Receipts:  pdf.NewReceiptGenerator(time.Now),
		Metrics:   c.Metrics,
		Now:       time.Now,
		Log:       log.With().Str("component", "orders").Logger(),
	})
	c.Quotes = quotes.NewUseCase(quoteRepo, txRunner, time.Now, log.With().Str("component", "quotes").Logger())

	return c, nil
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps() apphttp.RouterDeps {
	return apphttp.RouterDeps{
		AuthUC:         c.Auth,
		AccessUC:       c.Access,
		ProvisioningUC: c.Provisioning,
		WebhookUC:      c.Webhook,
		OrdersUC:       c.Orders,
		QuotesUC:       c.Quotes,
		LedgerUC:       c.Ledger,
		JWTSecret:      c.cfg.JWT.Secret,
		Log:            c.log.With().Str("component", "http").Logger(),
	}
}

// BillingConfig reglas de cobro con las que se construyó el contenedor.
func (c *Container) BillingConfig() config.BillingConfig { return c.cfg.Billing }

// Close libera Redis y el pool.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.log.Warn().Err(err).Msg("cerrar redis")
		}
	}
	c.Pool.Close()
}
