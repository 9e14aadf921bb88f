package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries either an admin login (admin API tokens) or the hash of an
// installation token (client API tokens).
type Claims struct {
	jwt.RegisteredClaims
	AdminLogin            string `json:"admin_login,omitempty"`
	InstallationTokenHash string `json:"installation_token_hash,omitempty"`
}

// IsAdmin reports whether the token was issued by admin login.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.AdminLogin != ""
}

// IsActivatedClient reports whether the token belongs to an activated app.
func (c *Claims) IsActivatedClient() bool {
	return c != nil && c.InstallationTokenHash != ""
}

func generateToken(claims Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

func GenerateAdminToken(login string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generateToken(Claims{AdminLogin: login}, secretKey, validityDuration)
}

func GenerateClientToken(tokenHash string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generateToken(Claims{InstallationTokenHash: tokenHash}, secretKey, validityDuration)
}

// ParseToken verifies an HS256 token and returns its claims. Expired tokens
// yield common.ErrTokenExpired, anything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
