package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	// Meta data
	Claim interface{} `json:"claim"`

	// Inherit from registered claims
	jwt.RegisteredClaims
}

// GenerateJWTToken signs claims with an ES256 private key
func GenerateJWTToken(privateKeyData []byte, claim TokenClaims) (string, error) {
	privateKey, keyErr := jwt.ParseECPrivateKeyFromPEM(privateKeyData)
	if keyErr != nil {
		return "", fmt.Errorf("unable to parse private key: %w", keyErr)
	}

	method := jwt.GetSigningMethod(jwt.SigningMethodES256.Name)
	return jwt.NewWithClaims(method, claim).SignedString(privateKey)
}

// ValidateToken parses and validates an ES256 token and returns its claims
func ValidateToken(keyData []byte, token string) (jwt.MapClaims, error) {
	publicKey, keyErr := jwt.ParseECPublicKeyFromPEM(keyData)
	if keyErr != nil {
		return nil, keyErr
	}

	parsed, parseErr := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if claims, ok := parsed.Claims.(jwt.MapClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("token claim is not valid")
}

// UTCNowUnix returns the current UTC time as a Unix timestamp
func UTCNowUnix() int64 {
	return time.Now().UTC().Unix()
}
