package utils

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomID generates a random string of length n
func GenerateRandomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			// Fallback to less secure random if crypto rand fails (highly unlikely)
			return ""
		}
		b[i] = charset[num.Int64()]
	}
	return string(b)
}

// NewPublicID returns a prefixed identifier such as "comm_k3v9x0a1b2c4".
func NewPublicID(prefix string) string {
	return prefix + "_" + GenerateRandomID(12)
}
