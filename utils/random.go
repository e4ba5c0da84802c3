package utils

import (
	"crypto/rand"
)

// RandomFromCharset returns a string of length n sampled from charset using crypto/rand.
func RandomFromCharset(n int, charset string) (string, error) {
	// Make a slice of n random bytes.
	code := make([]byte, n)

	// Read into the slice.
	if _, err := rand.Read(code); err != nil {
		return "", err
	}

	// Convert bytes to charset characters.
	for i := 0; i < n; i++ {
		code[i] = charset[int(code[i])%len(charset)]
	}

	return string(code), nil
}
