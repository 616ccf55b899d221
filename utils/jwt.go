package utils

import (
	"errors"
	"time"

	"stayhub/config"

	"github.com/golang-jwt/jwt"
)

// secretKey reads the signing secret through the loaded config, so a value
// from config.yaml or the environment is honored. Fallback to a default (not
// recommended in production).
func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "stayhub-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT token for the given subject with a role
// claim. Tokens are minted by the external identity service in production;
// this helper exists for development and tests.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractActorFromToken extracts the subject and role claims from a valid
// token string.
func ExtractActorFromToken(tokenString string) (id string, role string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	roleClaim, _ := claims["role"].(string)

	return sub, roleClaim, nil
}
