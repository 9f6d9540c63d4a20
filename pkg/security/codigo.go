package security

import (
	"crypto/rand"
	"fmt"
)

const codigoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCodigo returns a random uppercase alphanumeric code of the given
// length, suitable for public report validation codes.
func GenerateCodigo(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate codigo: %w", err)
	}
	for i, b := range buf {
		buf[i] = codigoAlphabet[int(b)%len(codigoAlphabet)]
	}
	return string(buf), nil
}
