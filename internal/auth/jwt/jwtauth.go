package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
)

// VerifyToken checks the token and returns the seller identity held in its subject.
func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	if t.Subject() == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return t.Subject(), nil
}

// NewToken creates a JWT for sellerId. Tokens are issued by the storefront; this is used by
// tests and local tooling.
func NewToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, sellerId string) (string, error) {
	claims := map[string]interface{}{
		"exp": time.Now().Add(ttl).Unix(),
		"sub": sellerId,
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return ts, err
	}
	return ts, nil
}

// CurrentIdentity returns the seller identity verified by jwtauth.Verifier for this request.
func CurrentIdentity(ctx context.Context) (string, error) {
	t, _, err := jwtauth.FromContext(ctx)
	if err != nil || t == nil || t.Subject() == "" {
		return "", gerr.ErrUnauthenticated
	}
	return t.Subject(), nil
}

// Config holds the shared secret tokens are signed with.
type Config struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// New returns the HS256 verifier for c.
func New(c *Config) (*jwtauth.JWTAuth, error) {
	if c == nil || c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil), nil
}
