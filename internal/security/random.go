package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// verificationAlphabet covers the characters used in emailed codes.
const verificationAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateToken returns the base64 encoding of n cryptographically
// secure random bytes.
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", fmt.Errorf("security: generate token: %w", errRead)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateVerificationCode returns a random code of the given length
// drawn from digits and uppercase letters.
func GenerateVerificationCode(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(verificationAlphabet)))
	for i := range out {
		idx, errRand := rand.Int(rand.Reader, max)
		if errRand != nil {
			return "", fmt.Errorf("security: generate code: %w", errRand)
		}
		out[i] = verificationAlphabet[idx.Int64()]
	}
	return string(out), nil
}
