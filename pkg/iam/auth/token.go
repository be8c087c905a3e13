package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

var authRegistry = errx.NewRegistry("AUTH")

var (
	CodeMissingToken = authRegistry.Register("MISSING_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Missing authorization token")
	CodeInvalidToken = authRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeForbidden    = authRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

func ErrMissingToken() *errx.Error { return authRegistry.New(CodeMissingToken) }
func ErrInvalidToken() *errx.Error { return authRegistry.New(CodeInvalidToken) }
func ErrForbidden() *errx.Error    { return authRegistry.New(CodeForbidden) }

// TokenService mints and validates access tokens.
type TokenService interface {
	GenerateToken(authCtx *AuthContext) (string, error)
	ValidateToken(token string) (*AuthContext, error)
}

type claims struct {
	CompanyID string   `json:"company_id,omitempty"`
	Scopes    []string `json:"scopes"`
	jwt.RegisteredClaims
}

// JWTService signs tokens with a shared HMAC secret.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTService(secret, issuer string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

func (s *JWTService) GenerateToken(authCtx *AuthContext) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		CompanyID: authCtx.CompanyID.String(),
		Scopes:    scopeStrings(authCtx.Scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authCtx.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", authRegistry.NewWithCause(CodeInvalidToken, err)
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*AuthContext, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken().WithDetail("alg", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, authRegistry.NewWithCause(CodeInvalidToken, err)
	}

	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken()
	}

	return &AuthContext{
		UserID:    kernel.NewUserID(tokenClaims.Subject),
		CompanyID: kernel.NewCompanyID(tokenClaims.CompanyID),
		Scopes:    scopesFromStrings(tokenClaims.Scopes),
	}, nil
}
