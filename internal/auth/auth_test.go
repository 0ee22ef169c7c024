package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestVerifyToken_PersonalIdentity(t *testing.T) {
	Init(&Config{Secret: testSecret})

	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	identity, err := VerifyToken(requestWithToken(token))
	require.NoError(t, err)
	assert.Equal(t, "user_1", identity.UserID)
	assert.Nil(t, identity.OrganizationID)
}

func TestVerifyToken_OrganizationContext(t *testing.T) {
	Init(&Config{Secret: testSecret})

	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		OrgID: "org_7",
	}, testSecret)

	identity, err := VerifyToken(requestWithToken(token))
	require.NoError(t, err)
	require.NotNil(t, identity.OrganizationID)
	assert.Equal(t, "org_7", *identity.OrganizationID)
}

func TestVerifyToken_Errors(t *testing.T) {
	Init(&Config{Secret: testSecret})

	tests := []struct {
		name  string
		token string
	}{
		{"no header", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, "other-secret")},
		{"expired", signToken(t, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}, testSecret)},
		{"no expiration", signToken(t, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "user_1",
			},
		}, testSecret)},
		{"no subject", signToken(t, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(requestWithToken(tt.token))
			assert.Error(t, err)
		})
	}
}

func TestIdentityFromRequest_AnonymousOnBadToken(t *testing.T) {
	Init(&Config{Secret: testSecret})

	assert.Nil(t, IdentityFromRequest(requestWithToken("")))
	assert.Nil(t, IdentityFromRequest(requestWithToken("broken")))
}
