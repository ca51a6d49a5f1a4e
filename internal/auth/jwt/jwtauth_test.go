package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewToken(jwtAuth, time.Hour, "seller-1")
	require.NoError(t, err)

	sub, err := VerifyToken(jwtAuth, tok)
	assert.NoError(t, err)
	assert.Equal(t, "seller-1", sub)

	_, err = VerifyToken(jwtauth.New("HS256", []byte("other"), nil), tok)
	assert.Error(t, err)

	expired, err := NewToken(jwtAuth, -time.Hour, "seller-1")
	require.NoError(t, err)
	_, err = VerifyToken(jwtAuth, expired)
	assert.Error(t, err)

	anonymous, err := NewToken(jwtAuth, time.Hour, "")
	require.NoError(t, err)
	_, err = VerifyToken(jwtAuth, anonymous)
	assert.Error(t, err)
}

func TestCurrentIdentity(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewToken(jwtAuth, time.Hour, "seller-1")
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(jwtAuth, tok)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), parsed, nil)
	id, err := CurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "seller-1", id)

	_, err = CurrentIdentity(context.Background())
	assert.ErrorIs(t, err, gerr.ErrUnauthenticated)
}
