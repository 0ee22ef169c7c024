package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity представляет проверенную идентичность пользователя.
// Токены выпускает внешний провайдер аутентификации, сервис их только читает.
type Identity struct {
	UserID         string
	OrganizationID *string
}

// Claims — стандартные утверждения плюс контекст организации,
// который провайдер кладет в org_id
type Claims struct {
	jwt.RegisteredClaims
	OrgID string `json:"org_id,omitempty"`
}

var (
	secretKey []byte
	issuer    string
)

func Init(cfg *Config) {
	secretKey = []byte(cfg.Secret)
	issuer = cfg.Issuer
}

// VerifyToken проверяет bearer-токен запроса и возвращает идентичность
func VerifyToken(r *http.Request) (*Identity, error) {
	authToken := r.Header.Get("Authorization")
	if authToken == "" {
		return nil, fmt.Errorf("no authorization header")
	}

	return verify(strings.TrimPrefix(authToken, "Bearer "))
}

// IdentityFromRequest возвращает идентичность для маршрутов, где токен
// не обязателен. Отсутствующий или невалидный токен дает nil.
func IdentityFromRequest(r *http.Request) *Identity {
	identity, err := VerifyToken(r)
	if err != nil {
		return nil
	}
	return identity
}

func verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	identity := &Identity{UserID: claims.Subject}
	if claims.OrgID != "" {
		orgID := claims.OrgID
		identity.OrganizationID = &orgID
	}

	return identity, nil
}
