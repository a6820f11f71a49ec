package utils

import (
	"crypto/rand"     // Random bytes for refresh tokens
	"crypto/sha256"   // Refresh token hashing
	"encoding/base64" // Token encodings
	"time"            // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims embedded in every access token
type Claims struct {
	UserID               uint   `json:"user_id"` // Custom claim for user ID
	Email                string `json:"email"`   // User email
	Name                 string `json:"name"`    // Display name
	Role                 string `json:"role"`    // Normalized role string
	jwt.RegisteredClaims        // Standard JWT claims
}

// TokenConfig carries the signing parameters for access tokens
type TokenConfig struct {
	Secret   string        // HMAC signing secret
	Issuer   string        // Expected issuer claim
	Audience string        // Expected audience claim
	TTL      time.Duration // Access token lifetime
}

// GenerateAccessToken creates a signed, time-boxed access token for a user
func GenerateAccessToken(cfg TokenConfig, userID uint, email, name, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(cfg.TTL)
	claims := Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString([]byte(cfg.Secret))      // Sign the token with the secret
	return signed, expiresAt, err
}

// ParseAccessToken parses a token string and validates signature, issuer,
// audience and expiry. No clock skew tolerance.
func ParseAccessToken(cfg TokenConfig, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err // Return error if parsing or validation fails
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	return nil, jwt.ErrSignatureInvalid
}

// GenerateRefreshToken returns a random opaque token: 32 bytes, base64
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashToken returns base64url(sha256(token)) for storage and lookup
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
