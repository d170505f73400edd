package random

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Nonce alphabet. It carries no '_' so generated values are safe inside
// underscore separated transaction ids.
const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// String returns a pseudo random alphanumeric string. Not for secrets.
func String(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[mrand.IntN(len(charset))]
	}
	return string(b)
}

func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	l := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// Nonce prefers the secure source and falls back to String when the
// system reader fails.
func Nonce(length int) string {
	s, err := StringSecure(length)
	if err != nil {
		return String(length)
	}
	return s
}
