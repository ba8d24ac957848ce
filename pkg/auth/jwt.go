package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the portal session JWT claims. The JWT carries only identity;
// the upstream bearer token lives in the Redis token store keyed by
// SessionID, so logout can revoke it server-side.
type Claims struct {
	PartnerID string `json:"partner_id"`
	SessionID string `json:"session_id"`
	Phone     string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new portal session token
func GenerateJWT(partnerID, sessionID, phone, secret string, expirationHours int) (string, error) {
	claims := &Claims{
		PartnerID: partnerID,
		SessionID: sessionID,
		Phone:     phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(expirationHours))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT validates a portal session token and returns the claims
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
