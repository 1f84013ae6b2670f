package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-minimum-32-characters-long"

func TestGenerateJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", testSecret, 24)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}

func TestValidateJWT(t *testing.T) {
	token, err := GenerateJWT("user-123", testSecret, 168)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", testSecret, 24)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "another-secret-key-minimum-32-characters")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("user-1", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_RejectsOtherSigningMethods(t *testing.T) {
	claims := &Claims{UserID: "user-1"}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_RequiresUserID(t *testing.T) {
	token, err := GenerateJWT("", testSecret, 24)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_Malformed(t *testing.T) {
	_, err := ValidateJWT("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestValidateJWTWithBlacklist(t *testing.T) {
	ctx := context.Background()
	blacklist := NewMemoryBlacklist()

	token, err := GenerateJWT("user-1", testSecret, 24)
	require.NoError(t, err)

	claims, err := ValidateJWTWithBlacklist(ctx, token, testSecret, blacklist)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	require.NoError(t, blacklist.Add(ctx, token, RemainingTTL(claims)))

	_, err = ValidateJWTWithBlacklist(ctx, token, testSecret, blacklist)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateJWTWithBlacklist_NilRevoker(t *testing.T) {
	token, err := GenerateJWT("user-1", testSecret, 24)
	require.NoError(t, err)

	claims, err := ValidateJWTWithBlacklist(context.Background(), token, testSecret, nil)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestRemainingTTL(t *testing.T) {
	assert.Zero(t, RemainingTTL(nil))
	assert.Zero(t, RemainingTTL(&Claims{}))

	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}
	assert.Zero(t, RemainingTTL(past))

	future := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	assert.InDelta(t, time.Hour.Seconds(), RemainingTTL(future).Seconds(), 5)
}
