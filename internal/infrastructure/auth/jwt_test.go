package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:   "test-secret-key-that-is-long-enough",
		Issuer:   "safe-sessions",
		Audience: "safe-backend",
	})
}

func sign(t *testing.T, secret string, claims jwt.Claims, method jwt.SigningMethod) string {
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.Issue(userID, "jane@acme.test", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.test", claims.Email)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_Validate_Rejections(t *testing.T) {
	svc := newTestService()
	secret := "test-secret-key-that-is-long-enough"
	now := time.Now()
	base := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "safe-sessions",
			Audience:  jwt.ClaimStrings{"safe-backend"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
	}

	tests := []struct {
		name  string
		token func() string
		want  error
	}{
		{"expired", func() string {
			rc := base()
			rc.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
			return sign(t, secret, &Claims{RegisteredClaims: rc}, jwt.SigningMethodHS256)
		}, ErrExpiredToken},
		{"not yet valid", func() string {
			rc := base()
			rc.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
			return sign(t, secret, &Claims{RegisteredClaims: rc}, jwt.SigningMethodHS256)
		}, ErrTokenNotYetValid},
		{"wrong secret", func() string {
			return sign(t, "another-secret", &Claims{RegisteredClaims: base()}, jwt.SigningMethodHS256)
		}, ErrInvalidToken},
		{"wrong algorithm", func() string {
			return sign(t, secret, &Claims{RegisteredClaims: base()}, jwt.SigningMethodHS512)
		}, ErrInvalidToken},
		{"wrong issuer", func() string {
			rc := base()
			rc.Issuer = "someone-else"
			return sign(t, secret, &Claims{RegisteredClaims: rc}, jwt.SigningMethodHS256)
		}, ErrInvalidToken},
		{"wrong audience", func() string {
			rc := base()
			rc.Audience = jwt.ClaimStrings{"other"}
			return sign(t, secret, &Claims{RegisteredClaims: rc}, jwt.SigningMethodHS256)
		}, ErrInvalidToken},
		{"missing subject", func() string {
			rc := base()
			rc.Subject = ""
			return sign(t, secret, &Claims{RegisteredClaims: rc}, jwt.SigningMethodHS256)
		}, ErrMissingSubject},
		{"non uuid subject", func() string {
			rc := base()
			rc.Subject = "user-42"
			return sign(t, secret, &Claims{RegisteredClaims: rc}, jwt.SigningMethodHS256)
		}, ErrInvalidSubject},
		{"garbage", func() string { return "not.a.token" }, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJWTService_LeewayAndOptionalChecks(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", Leeway: time.Minute})
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "anyone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-30 * time.Second)),
	}}
	_, err := svc.Validate(sign(t, "s", claims, jwt.SigningMethodHS256))
	assert.NoError(t, err, "expiry within leeway and no issuer/audience configured")
}
