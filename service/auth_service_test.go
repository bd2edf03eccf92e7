// file: service/auth_service_test.go

package service

import (
	"errors"
	"testing"
	"time"
	"user-management-api/config"
	"user-management-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	testSecret = "test-secret-key"
	fixedNow   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newTestAuthService() *AuthService {
	s := NewAuthService(config.JWTConfig{SecretKey: testSecret, AccessTokenTTL: 15 * time.Minute}, bcrypt.MinCost)
	s.now = func() time.Time { return fixedNow }
	return s
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() *model.AppClaims {
	return &model.AppClaims{
		Role: string(model.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "0b7c6c1e-4c1f-4a55-9b0a-2f0e3f5f6a01",
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and verification methods work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService := newTestAuthService()
	password := "mySecretPassword123!"

	hashedPassword, err := authService.HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, authService.CheckPasswordHash(password, hashedPassword))
	assert.False(t, authService.CheckPasswordHash("notMyPassword", hashedPassword))
}

func TestAuthService_GenerateAndResolve(t *testing.T) {
	authService := newTestAuthService()

	token, err := authService.GenerateAccessToken("user-1", model.RoleManager)
	require.NoError(t, err)

	identity, err := authService.ResolveIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: "user-1", Role: model.RoleManager}, identity)

	claims, err := authService.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestAuthService_VerifyToken(t *testing.T) {
	authService := newTestAuthService()

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(fixedNow.Add(-time.Minute))

	notYetValid := validClaims()
	notYetValid.NotBefore = jwt.NewNumericDate(fixedNow.Add(time.Minute))

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	noneToken := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())

	tests := []struct {
		name  string
		token string
	}{
		{"wrong key", signToken(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims())},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"not yet valid", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), notYetValid)},
		{"missing exp", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{"unsupported algorithm", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())},
		{"alg none", noneToken},
		{"two segments", "header.payload"},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := authService.VerifyToken(tt.token)
			assert.Nil(t, claims)
			assert.Equal(t, ErrVerificationFailed, err)
		})
	}

	t.Run("valid", func(t *testing.T) {
		claims, err := authService.VerifyToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
		require.NoError(t, err)
		assert.Equal(t, "ADMIN", claims.Role)
	})

	t.Run("nbf in the past", func(t *testing.T) {
		c := validClaims()
		c.NotBefore = jwt.NewNumericDate(fixedNow.Add(-time.Minute))
		_, err := authService.VerifyToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		assert.NoError(t, err)
	})
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	authService := newTestAuthService()
	key := []byte(testSecret)
	exp := fixedNow.Add(time.Hour).Unix()

	tests := []struct {
		name    string
		claims  jwt.Claims
		key     []byte
		wantErr error
	}{
		{"missing role", jwt.MapClaims{"sub": "user-1", "exp": exp}, key, ErrMissingClaims},
		{"empty role", jwt.MapClaims{"sub": "user-1", "role": "", "exp": exp}, key, ErrMissingClaims},
		{"missing subject", jwt.MapClaims{"role": "ADMIN", "exp": exp}, key, ErrMissingClaims},
		{"blank subject", jwt.MapClaims{"sub": "  ", "role": "ADMIN", "exp": exp}, key, ErrMissingClaims},
		{"missing role and bad signature", jwt.MapClaims{"sub": "user-1", "exp": exp}, []byte("wrong"), ErrInvalidOrExpiredToken},
		{"full claims and bad signature", jwt.MapClaims{"sub": "user-1", "role": "ADMIN", "exp": exp}, []byte("wrong"), ErrInvalidOrExpiredToken},
		{"expired with full claims", jwt.MapClaims{"sub": "user-1", "role": "ADMIN", "exp": fixedNow.Add(-time.Second).Unix()}, key, ErrInvalidOrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, jwt.SigningMethodHS256, tt.key, tt.claims)
			identity, err := authService.ResolveIdentity(token)
			assert.Equal(t, model.Identity{}, identity)
			assert.Equal(t, tt.wantErr, err)

			var authErr *AuthenticationError
			assert.True(t, errors.As(err, &authErr))
		})
	}

	t.Run("failure messages do not reveal the failed check", func(t *testing.T) {
		expired := signToken(t, jwt.SigningMethodHS256, key, jwt.MapClaims{"sub": "u", "role": "ADMIN", "exp": fixedNow.Add(-time.Second).Unix()})
		forged := signToken(t, jwt.SigningMethodHS256, []byte("wrong"), jwt.MapClaims{"sub": "u", "role": "ADMIN", "exp": exp})

		_, errExpired := authService.ResolveIdentity(expired)
		_, errForged := authService.ResolveIdentity(forged)
		assert.Equal(t, errExpired.Error(), errForged.Error())
	})
}

func TestAuthService_EmptySecretRejectsEverything(t *testing.T) {
	authService := NewAuthService(config.JWTConfig{AccessTokenTTL: time.Minute}, bcrypt.MinCost)
	token := signToken(t, jwt.SigningMethodHS256, []byte("anything"), jwt.MapClaims{"sub": "u", "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix()})

	_, err := authService.ResolveIdentity(token)
	assert.Equal(t, ErrInvalidOrExpiredToken, err)
}

func TestAuthService_BurnPasswordCheck(t *testing.T) {
	s := newTestAuthService()
	assert.Empty(t, s.dummyHash)

	s.BurnPasswordCheck("anything")
	first := s.dummyHash
	require.NotEmpty(t, first)

	cost, err := bcrypt.Cost(first)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	s.BurnPasswordCheck("something else")
	assert.Equal(t, first, s.dummyHash)
}
