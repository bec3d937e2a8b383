package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
)

// Claims is the expected shape of a session token issued by the auth service.
type Claims struct {
	Role        string   `json:"role"`
	Permissions []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates signed session tokens. It never issues or refreshes them.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for HMAC-signed tokens.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a raw token and derives the subscriber identity.
// Any failure is reported as apperr.ErrAuth; no partial identity is returned.
func (v *Verifier) Verify(rawToken string) (domain.Identity, error) {
	if rawToken == "" {
		return domain.Identity{}, apperr.ErrAuth
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(rawToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, apperr.ErrAuth
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return domain.Identity{}, apperr.ErrAuth
	}

	return domain.Identity{
		ID:          claims.Subject,
		Role:        role,
		Permissions: claims.Permissions,
	}, nil
}
