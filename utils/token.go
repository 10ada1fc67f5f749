package utils

import (
	"errors"
	"sync"
	"time"
)

var (
	revokedTokens = make(map[string]time.Time)
	revokedMutex  sync.RWMutex
)

// RevokeToken menandai token sebagai tidak berlaku (logout) selama 24 jam,
// menyamai masa berlaku token itu sendiri.
func RevokeToken(token string) {
	revokedMutex.Lock()
	defer revokedMutex.Unlock()
	revokedTokens[token] = time.Now().Add(24 * time.Hour)
}

func IsTokenRevoked(token string) bool {
	revokedMutex.RLock()
	defer revokedMutex.RUnlock()

	if expiry, exists := revokedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
	}
	return false
}

// CleanupRevokedTokens membuang entri kadaluarsa, dipanggil periodik dari main.
func CleanupRevokedTokens() {
	revokedMutex.Lock()
	defer revokedMutex.Unlock()
	now := time.Now()
	for token, expiry := range revokedTokens {
		if now.After(expiry) {
			delete(revokedTokens, token)
		}
	}
}

// ValidateToken memeriksa signature dan daftar revoked sekaligus.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if IsTokenRevoked(tokenString) {
		return nil, errors.New("token has been revoked")
	}
	return ParseToken(tokenString)
}
