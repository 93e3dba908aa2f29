package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/auth"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pedidos-api/pkg/jwt"
)

const secret = "test-secret"

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newAuth() (*memory.Store, *auth.AuthUseCase) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "pedidos-api"}, 30,
		func() time.Time { return fixedNow }, zerolog.Nop())
	return store, uc
}

func registration() dto.RegisterCompanyRequest {
	return dto.RegisterCompanyRequest{
		CompanyName: "Gráfica Central",
		Document:    "12345678000190",
		Email:       "Dona@Grafica.com",
		Password:    "s3nha-forte",
		UserName:    "Dona Maria",
	}
}

func TestRegisterCompany(t *testing.T) {
	store, uc := newAuth()
	ctx := context.Background()

	out, err := uc.RegisterCompany(ctx, registration())
	require.NoError(t, err)

	require.NotNil(t, out.Company.TrialEndDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), *out.Company.TrialEndDate)
	assert.False(t, out.Company.UnlimitedAccess)
	assert.Equal(t, "admin", out.User.Role)
	assert.Equal(t, "dona@grafica.com", out.User.Email)
	assert.Equal(t, out.Company.ID, out.User.CompanyID)

	userID, companyID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, out.Company.ID, companyID)
	assert.Equal(t, string(entity.RoleAdmin), role)

	stored, _ := store.Users().FindByEmail(ctx, "dona@grafica.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3nha-forte", stored.PasswordHash)

	_, err = uc.RegisterCompany(ctx, registration())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterCompany_Validacion(t *testing.T) {
	_, uc := newAuth()
	in := registration()
	in.Password = "curta"

	_, err := uc.RegisterCompany(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestLogin(t *testing.T) {
	_, uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterCompany(ctx, registration())
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "dona@grafica.com", Password: "s3nha-forte"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Positive(t, out.ExpiresIn)
	assert.Equal(t, "Dona Maria", out.User.Name)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "dona@grafica.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ninguem@grafica.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
