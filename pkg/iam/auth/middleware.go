package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware authenticates requests with bearer tokens and gates routes
// on scopes.
type TokenMiddleware struct {
	tokens TokenService
}

func NewTokenMiddleware(tokens TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate validates the Authorization header and stores the resulting
// AuthContext on the request.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrMissingToken()
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return ErrInvalidToken()
		}

		authCtx, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			return err
		}

		setAuthContext(c, authCtx)
		return c.Next()
	}
}

// RequireScope rejects requests whose token lacks the scope. Must run after
// Authenticate.
func (m *TokenMiddleware) RequireScope(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !authCtx.HasScope(scope) {
			return ErrForbidden().WithDetail("required_scope", string(scope))
		}
		return c.Next()
	}
}

// RequireAnyScope rejects requests whose token carries none of the scopes.
// Must run after Authenticate.
func (m *TokenMiddleware) RequireAnyScope(scopes ...Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !authCtx.HasAnyScope(scopes...) {
			return ErrForbidden().WithDetail("required_scopes", scopeStrings(scopes))
		}
		return c.Next()
	}
}

// RequireCompany rejects applicant tokens. Must run after Authenticate.
func (m *TokenMiddleware) RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !authCtx.IsCompany() {
			return ErrForbidden().WithDetail("reason", "company account required")
		}
		return c.Next()
	}
}
