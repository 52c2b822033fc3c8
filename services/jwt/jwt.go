package jwt

import (
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

// AccessTokenValidity is how long a dashboard session lasts.
const AccessTokenValidity = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs an access token carrying the user's id, username and role.
func GenerateToken(userID uint, username, role, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret key is missing")
	}
	claims := jwtgo.MapClaims{
		"id":       userID,
		"username": username,
		"role":     role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(AccessTokenValidity).Unix(),
	}
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "signing access token")
	}
	return signed, nil
}

// ValidateAndGetClaims checks the signature and expiry of token and returns
// its claims.
func ValidateAndGetClaims(token, secret string) (jwtgo.MapClaims, error) {
	parsed, err := jwtgo.Parse(token, func(t *jwtgo.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	claims, ok := parsed.Claims.(jwtgo.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID reads the numeric id claim.
func UserID(claims jwtgo.MapClaims) (uint, error) {
	switch v := claims["id"].(type) {
	case float64:
		return uint(v), nil
	default:
		return 0, errors.Wrapf(ErrInvalidToken, "id claim has type %T", v)
	}
}
