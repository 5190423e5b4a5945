package keygen

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// ResetTokenBytes is the entropy of a password reset token
const ResetTokenBytes = 32

// GenerateResetToken generates an opaque password reset token
// Format: 32 random bytes, base64url without padding (43 characters)
func GenerateResetToken() (string, error) {
	return RandomURLSafe(ResetTokenBytes)
}

// GenerateSessionID generates an opaque session identifier
// Format: UUID v4 (36 characters with hyphens)
func GenerateSessionID() string {
	return uuid.New().String()
}

// RandomURLSafe returns n bytes from crypto/rand encoded as unpadded base64url
func RandomURLSafe(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
