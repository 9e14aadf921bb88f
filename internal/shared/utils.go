// Package shared provides helpers for generating random secrets such as
// activation codes and installation tokens.
package shared

import (
	"crypto/rand"
	"math/big"
)

const (
	digits       = "0123456789"
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" + digits
)

// RandomNumericString returns a string of the given length made of decimal
// digits drawn from crypto/rand. Leading zeros are allowed.
//
// Example:
//
//	code, err := RandomNumericString(15) // e.g. "048213977650312"
func RandomNumericString(length int) (string, error) {
	return randomString(length, digits)
}

// RandomAlphanumericString returns a string of the given length made of
// ASCII letters and digits drawn from crypto/rand.
func RandomAlphanumericString(length int) (string, error) {
	return randomString(length, alphanumeric)
}

func randomString(length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", nil
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}

	return string(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to drop plaintext passwords read from the terminal.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
