package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

func newTestApp() (*fiber.App, *TokenMiddleware, *JWTService) {
	svc := NewJWTService("test-secret", "board-test", time.Hour)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*errx.Error); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
	})
	return app, NewTokenMiddleware(svc), svc
}

func mintToken(t *testing.T, svc *JWTService, authCtx *AuthContext) string {
	t.Helper()
	token, err := svc.GenerateToken(authCtx)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func request(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	app, middleware, _ := newTestApp()
	app.Get("/protected", middleware.Authenticate(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	if status := request(t, app, ""); status != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want 401", status)
	}
}

func TestAuthenticateStoresContext(t *testing.T) {
	app, middleware, svc := newTestApp()
	app.Get("/protected", middleware.Authenticate(), func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			t.Error("expected auth context on the request")
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if authCtx.UserID != kernel.NewUserID("user-1") {
			t.Errorf("user id: got %s, want user-1", authCtx.UserID)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	token := mintToken(t, svc, &AuthContext{
		UserID: kernel.NewUserID("user-1"),
		Scopes: ApplicantScopes(),
	})
	if status := request(t, app, token); status != http.StatusOK {
		t.Errorf("valid token: got %d, want 200", status)
	}
}

func TestRequireAnyScopeAcceptsEitherScope(t *testing.T) {
	app, middleware, svc := newTestApp()
	app.Get("/protected",
		middleware.Authenticate(),
		middleware.RequireAnyScope(ScopeApplicationsWrite, ScopeApplicationsReview),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	applicant := mintToken(t, svc, &AuthContext{
		UserID: kernel.NewUserID("user-1"),
		Scopes: ApplicantScopes(),
	})
	company := mintToken(t, svc, &AuthContext{
		UserID:    kernel.NewUserID("recruiter-1"),
		CompanyID: kernel.NewCompanyID("company-1"),
		Scopes:    CompanyScopes(),
	})
	neither := mintToken(t, svc, &AuthContext{
		UserID: kernel.NewUserID("user-2"),
		Scopes: []Scope{ScopeNotificationsRead},
	})

	if status := request(t, app, applicant); status != http.StatusOK {
		t.Errorf("applications:write token: got %d, want 200", status)
	}
	if status := request(t, app, company); status != http.StatusOK {
		t.Errorf("applications:review token: got %d, want 200", status)
	}
	if status := request(t, app, neither); status != http.StatusForbidden {
		t.Errorf("token without either scope: got %d, want 403", status)
	}
}
