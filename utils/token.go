package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "supersecret" // dev fallback; set SESSION_SECRET in production

func signingKey() []byte {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(defaultSecret)
}

// GenerateSessionToken signs the opaque session handle into the cookie
// value. The claim exp is a hard ceiling; the effective lifetime is the
// sliding TTL of the server-side session record.
func GenerateSessionToken(sid string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(signingKey())
}

// ParseSessionToken verifies the cookie value and returns the session handle.
func ParseSessionToken(token string) (string, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
	if err != nil {
		return "", errors.New("could not parse session token")
	}
	if !parsedToken.Valid {
		return "", errors.New("invalid session token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("invalid token claims")
	}
	return sid, nil
}
