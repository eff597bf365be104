package utils

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// secretKey signs wizard session tokens. It is random per process until SetTokenSecret is called.
var secretKey = randomSecret()

func randomSecret() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("utils: cannot read random secret: " + err.Error())
	}
	return b
}

// SetTokenSecret installs the signing secret. An empty secret keeps the random one.
func SetTokenSecret(secret string) {
	if secret == "" {
		GetLogger().Warn("JWT_SECRET is empty; session tokens will not survive a restart")
		return
	}
	secretKey = []byte(secret)
}

// GenerateSessionToken creates a signed JWT whose subject is the wizard session id.
// The token expires after the specified duration.
func GenerateSessionToken(sessionID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   sessionID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
}

// ExtractSessionID returns the session id carried by a valid session token.
func ExtractSessionID(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
