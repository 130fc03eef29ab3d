package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/config"
)

// ErrInvalidToken indicates the access token failed signature or claim validation.
var ErrInvalidToken = errors.New("security: invalid access token")

// ErrTokenExpired indicates the access token is past its expiry.
var ErrTokenExpired = errors.New("security: access token expired")

// AccessClaims are the registered and custom claims carried by access tokens
// issued by the identity service.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HMAC-signed access tokens and extracts the calling
// principal. Token issuance belongs to the identity service; this side only
// verifies.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier constructs a verifier from JWT settings.
func NewTokenVerifier(cfg config.JWTSettings) (*TokenVerifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, fmt.Errorf("security: jwt secret is required")
	}
	return &TokenVerifier{secret: []byte(secret), issuer: cfg.Issuer}, nil
}

// VerifyAccessToken parses and validates the token string, returning the
// authenticated principal.
func (v *TokenVerifier) VerifyAccessToken(tokenString string) (*domain.Principal, error) {
	claims := &AccessClaims{}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}

	role := domain.LegacyRole(claims.Role)
	if role != domain.LegacyRoleAdmin {
		role = domain.LegacyRoleUser
	}

	return &domain.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  role,
	}, nil
}

// IssueAccessToken signs a token for the principal. Intended for tests and
// local tooling, not production issuance.
func (v *TokenVerifier) IssueAccessToken(principal domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Email: principal.Email,
		Role:  string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}
