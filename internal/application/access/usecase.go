// Package access expone el estado de acceso (paywall) de la empresa del llamador.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	domainaccess "github.com/jhoicas/pedidos-api/internal/domain/access"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// UseCase resuelve el estado de acceso con caché de corta duración.
type UseCase struct {
	companyRepo repository.CompanyRepository
	subRepo     repository.SubscriptionRepository
	cache       StatusCache
	ttl         time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso. cache nil equivale a NopCache.
func NewUseCase(
	companyRepo repository.CompanyRepository,
	subRepo repository.SubscriptionRepository,
	cache StatusCache,
	ttl time.Duration,
	now func() time.Time,
	log zerolog.Logger,
) *UseCase {
	if cache == nil {
		cache = NopCache{}
	}
	if now == nil {
		now = time.Now
	}
	return &UseCase{companyRepo: companyRepo, subRepo: subRepo, cache: cache, ttl: ttl, now: now, log: log}
}

// Status estado de acceso de la empresa del llamador.
func (uc *UseCase) Status(ctx context.Context, auth entity.AuthContext) (domainaccess.Result, error) {
	if auth.Role == entity.RoleSuperadmin {
		return domainaccess.Resolve(auth.Role, entity.Company{}, nil, uc.now()), nil
	}
	if auth.CompanyID == "" {
		return domainaccess.Result{}, domain.ErrUnauthorized
	}

	if res, ok, err := uc.cache.Get(ctx, auth.CompanyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", auth.CompanyID).Msg("caché de acceso no disponible")
	} else if ok {
		return res, nil
	}

	company, err := uc.companyRepo.GetByID(ctx, auth.CompanyID)
	if err != nil {
		return domainaccess.Result{}, fmt.Errorf("access: empresa: %w", err)
	}
	if company == nil {
		return domainaccess.Result{}, domain.ErrNotFound
	}
	sub, err := uc.subRepo.GetLatestActive(ctx, auth.CompanyID)
	if err != nil {
		return domainaccess.Result{}, fmt.Errorf("access: suscripción: %w", err)
	}

	res := domainaccess.Resolve(auth.Role, *company, sub, uc.now())
	if err := uc.cache.Set(ctx, auth.CompanyID, res, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("company_id", auth.CompanyID).Msg("no se pudo guardar el estado de acceso")
	}
	return res, nil
}

// StatusResponse igual que Status, en forma de DTO.
func (uc *UseCase) StatusResponse(ctx context.Context, auth entity.AuthContext) (*dto.AccessStatusResponse, error) {
	res, err := uc.Status(ctx, auth)
	if err != nil {
		return nil, err
	}
	return &dto.AccessStatusResponse{
		Status:       string(res.Status),
		IsActive:     res.IsActive,
		TrialEndDate: res.TrialEndDate,
	}, nil
}

// Invalidate descarta el estado cacheado de la empresa (cambios de suscripción).
func (uc *UseCase) Invalidate(ctx context.Context, companyID string) {
	if companyID == "" {
		return
	}
	if err := uc.cache.Invalidate(ctx, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar el estado de acceso")
	}
}
