// internal/utils/jwt.go
package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/smartadega/smartadega-api/internal/apperrors"
)

const bearerPrefix = "Bearer "

// Supabase signs access tokens with HS256 only.
var allowedSigningMethods = []string{jwt.SigningMethodHS256.Alg()}

// TokenClaims is a verified credential: the principal plus every claim.
type TokenClaims struct {
	Subject string
	Claims  jwt.MapClaims
}

type TokenVerifier struct {
	secret   []byte
	audience string
}

func NewTokenVerifier(secret, audience string) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		audience: audience,
	}
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", apperrors.Unauthorized(apperrors.AuthMissing, errors.New("bearer credential not provided"))
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", apperrors.Unauthorized(apperrors.AuthMissing, errors.New("empty bearer credential"))
	}
	return token, nil
}

func (v *TokenVerifier) Verify(tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(allowedSigningMethods))

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.Unauthorized(apperrors.AuthExpired, err)
		}
		return nil, apperrors.Unauthorized(apperrors.AuthInvalid, err)
	}

	if !token.Valid {
		return nil, apperrors.Unauthorized(apperrors.AuthInvalid, errors.New("invalid token"))
	}

	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, apperrors.Unauthorized(apperrors.AuthInvalid, errors.New("unexpected audience"))
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, apperrors.Unauthorized(apperrors.AuthInvalid, errors.New("token has no subject"))
	}

	return &TokenClaims{Subject: subject, Claims: claims}, nil
}

// Issue signs a token for subject with the verifier's secret. Production
// tokens come from Supabase; this serves tests and local development.
func (v *TokenVerifier) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "smartadega",
		Subject:   subject,
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
