package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService manages the JWT session tokens the shell presents on every
// bridge call. The signing secret persists across runs so tokens issued
// to an already-running shell survive a bridge restart.
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
}

// SessionClaims is the JWT claims structure for a shell session.
type SessionClaims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

var authService *AuthService

// InitAuthService initializes the authentication service. With an empty
// secretKey the key is loaded from (or generated into) the user's home.
func InitAuthService(secretKey string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		secretKey = loadOrCreateSecret()
	}
	secretKey = strings.TrimSpace(secretKey)

	// HMAC-SHA256 wants at least 32 bytes of key material.
	if len(secretKey) < 32 {
		padding := make([]byte, 32-len(secretKey))
		_, _ = rand.Read(padding)
		secretKey = secretKey + hex.EncodeToString(padding)
	}

	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	authService = &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
	}
	return authService
}

func loadOrCreateSecret() string {
	homeDir, _ := os.UserHomeDir()
	keyFile := filepath.Join(homeDir, ".deskbridge-secret-key")
	if homeDir == "" {
		keyFile = filepath.Join(os.TempDir(), ".deskbridge-secret-key")
	}

	if data, err := os.ReadFile(keyFile); err == nil && len(data) > 0 {
		log.Printf("[AUTH] Loaded persisted secret key from %s", keyFile)
		return strings.TrimSpace(string(data))
	}

	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		// Last-resort key so the bridge still starts.
		return fmt.Sprintf("deskbridge-fallback-%d", time.Now().UnixNano())
	}
	secret := "deskbridge-" + hex.EncodeToString(randomBytes)

	if err := os.WriteFile(keyFile, []byte(secret), 0600); err != nil {
		log.Printf("[AUTH] Warning: could not persist secret key to %s: %v", keyFile, err)
	} else {
		log.Printf("[AUTH] Generated and persisted secret key to %s", keyFile)
	}
	return secret
}

// GenerateToken mints a session token for the named client.
func GenerateToken(client string) (string, error) {
	if authService == nil {
		return "", fmt.Errorf("auth service not initialized")
	}

	now := time.Now()
	claims := SessionClaims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(authService.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "deskbridge",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authService.secretKey))
}

// ValidateToken verifies and parses a session token.
func ValidateToken(tokenString string) (*SessionClaims, error) {
	if authService == nil {
		return nil, fmt.Errorf("auth service not initialized")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authService.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetTokenExpiry returns when a token minted now would expire.
func GetTokenExpiry() time.Time {
	if authService == nil {
		return time.Time{}
	}
	return time.Now().Add(authService.tokenExpiry)
}
