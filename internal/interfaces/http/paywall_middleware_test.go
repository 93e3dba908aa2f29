package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	domainaccess "github.com/jhoicas/pedidos-api/internal/domain/access"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	apphttp "github.com/jhoicas/pedidos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pedidos-api/pkg/jwt"
)

type stubChecker struct {
	res   domainaccess.Result
	err   error
	calls int
}

func (s *stubChecker) Status(context.Context, entity.AuthContext) (domainaccess.Result, error) {
	s.calls++
	return s.res, s.err
}

func paywallApp(checker *stubChecker) *fiber.App {
	app := fiber.New()
	app.Get("/orders",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireActiveAccess(checker, zerolog.Nop()),
		func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": "true"}) },
	)
	return app
}

func TestRequireActiveAccess(t *testing.T) {
	cases := []struct {
		name    string
		checker *stubChecker
		status  int
		code    string
	}{
		{"prueba vigente", &stubChecker{res: domainaccess.Result{Status: domainaccess.StatusTrial, IsActive: true}}, http.StatusOK, ""},
		{"vencida", &stubChecker{res: domainaccess.Result{Status: domainaccess.StatusExpired}}, http.StatusPaymentRequired, dto.CodePaymentRequired},
		{"fallo al resolver", &stubChecker{err: errors.New("redis caído")}, http.StatusServiceUnavailable, dto.CodeAccessCheckFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := get(t, paywallApp(tc.checker), "/orders", "Bearer "+signed(t, "user", testExpMin))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, 1, tc.checker.calls)
		})
	}
}

func TestRequireActiveAccess_SinEmpresaNoConsulta(t *testing.T) {
	checker := &stubChecker{res: domainaccess.Result{IsActive: true}}
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "admin", testIssuer, testExpMin)
	assert.NoError(t, err)

	resp, body := get(t, paywallApp(checker), "/orders", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, dto.CodeUnauthorized, body["code"])
	assert.Zero(t, checker.calls)
}
