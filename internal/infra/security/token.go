package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidAccessToken indicates the token failed signature or claim validation.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the token is past its expiry.
	ErrExpiredAccessToken = errors.New("access token expired")
)

// AccessTokenClaims carries the identity established by the authentication
// service. Token issuance happens there; this service only verifies.
type AccessTokenClaims struct {
	UserID string
	Roles  []string
}

// TokenVerifier validates HMAC-signed access tokens.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier constructs a verifier for the shared signing secret.
func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// ParseAccessToken validates the token and extracts the subject and roles claims.
func (v *TokenVerifier) ParseAccessToken(tokenString string) (*AccessTokenClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidAccessToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidAccessToken
	}

	parsed := &AccessTokenClaims{UserID: subject}

	if raw, ok := claims["roles"].([]any); ok {
		for _, entry := range raw {
			if name, ok := entry.(string); ok {
				parsed.Roles = append(parsed.Roles, name)
			}
		}
	}

	return parsed, nil
}
