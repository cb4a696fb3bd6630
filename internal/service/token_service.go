package service

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

// TokenService issues and verifies signed, time-bound identity tokens.
// Tokens are self-contained; there is no server-side session table, so a
// token stays valid until its natural expiry. Rotating the secret
// invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints an HS256 token whose expiration is issuance time plus the
// configured lifetime. No sliding expiration.
func (s *TokenService) Issue(accountID int64, email string, role string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(accountID, 10),
		"email": email,
		"role":  role,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, shape and expiry. Every failure mode collapses
// into a single unauthorized error so callers leak nothing about why.
func (s *TokenService) Verify(tokenString string) (*model.Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, errTokenInvalid()
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errTokenInvalid()
	}

	claims := &model.Claims{}
	claims.Subject, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.Subject == "" {
		return nil, errTokenInvalid()
	}

	return claims, nil
}

func errTokenInvalid() *apierror.APIError {
	return apierror.New("unauthorized", "invalid or expired token", "", http.StatusUnauthorized)
}
