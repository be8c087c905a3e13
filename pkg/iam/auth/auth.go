package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

const authContextKey = "auth_context"

// AuthContext is the authenticated identity attached to a request. CompanyID
// is empty for applicant tokens.
type AuthContext struct {
	UserID    kernel.UserID
	CompanyID kernel.CompanyID
	Scopes    []Scope
}

// HasScope reports whether the context carries the exact scope or the
// wildcard.
func (a *AuthContext) HasScope(scope Scope) bool {
	for _, s := range a.Scopes {
		if s == scope || s == ScopeAll {
			return true
		}
	}
	return false
}

// HasAnyScope reports whether the context carries any of the given scopes.
func (a *AuthContext) HasAnyScope(scopes ...Scope) bool {
	for _, scope := range scopes {
		if a.HasScope(scope) {
			return true
		}
	}
	return false
}

// IsCompany reports whether the token belongs to a company account.
func (a *AuthContext) IsCompany() bool {
	return !a.CompanyID.IsEmpty()
}

// GetAuthContext extracts the authenticated identity stored by the
// middleware. ok is false on unauthenticated routes.
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(*AuthContext)
	return authCtx, ok
}

func setAuthContext(c *fiber.Ctx, authCtx *AuthContext) {
	c.Locals(authContextKey, authCtx)
}
