package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/inventory-catalog/errs"
)

// Claims carried by identity tokens. The subject is the user id.
type Claims struct {
	Roles []Role `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier turns bearer tokens issued by the identity provider into identities
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates an HS256 token
func (v *TokenVerifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, errs.NewMissingTokenError()
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errs.NewExpiredTokenError()
		}
		return Identity{}, errs.NewInvalidTokenError(err)
	}
	if claims.Subject == "" {
		return Identity{}, errs.NewInvalidTokenError(errors.New("token has no subject"))
	}

	return Identity{UserID: claims.Subject, Roles: claims.Roles}, nil
}

// Issue signs a token for identity. Used by tooling and tests; production tokens come
// from the identity provider.
func (v *TokenVerifier) Issue(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
