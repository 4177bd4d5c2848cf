package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
)

// Claims are the verified token claims the rest of the system cares about.
type Claims struct {
	Subject   string
	Issuer    string
	Roles     []string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Verifier validates HMAC-signed admin tokens. The site has a single token
// issuer (the admin backend), so symmetric signing with a shared secret is
// sufficient; there is no JWKS round-trip.
type Verifier struct {
	secret []byte
	issuer string
	log    logger.Logger
}

// NewVerifier creates a verifier for tokens signed with secret by issuer.
func NewVerifier(secret []byte, issuer string, log logger.Logger) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if issuer == "" {
		return nil, errors.New("jwt issuer cannot be empty")
	}
	return &Verifier{secret: secret, issuer: issuer, log: log}, nil
}

// Verify parses and validates a token: HMAC signature, issuer and expiry.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse claims")
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iss, err := mapClaims.GetIssuer(); err == nil {
		claims.Issuer = iss
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	claims.Roles = extractRoles(mapClaims)

	v.log.Debug("token verified", "subject", claims.Subject)
	return claims, nil
}

// Issue signs a token for subject with the given roles and lifetime. Exists
// for the seed tooling and tests; the production issuer is the admin
// backend.
func (v *Verifier) Issue(subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"iss":   v.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"roles": roles,
	})
	return token.SignedString(v.secret)
}

func extractRoles(mapClaims jwt.MapClaims) []string {
	raw, ok := mapClaims["roles"]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case []string:
		return typed
	case []any:
		roles := make([]string, 0, len(typed))
		for _, item := range typed {
			if role, ok := item.(string); ok && role != "" {
				roles = append(roles, role)
			}
		}
		return roles
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}
