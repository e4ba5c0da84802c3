package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomFromCharset(t *testing.T) {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		s, err := RandomFromCharset(6, charset)
		require.NoError(t, err)
		require.Len(t, s, 6)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(charset, r))
		}
		seen[s] = struct{}{}
	}
	// 32^6 combinations: 1000 draws colliding would point at broken randomness.
	assert.Greater(t, len(seen), 990)
}

func TestRandomFromCharsetZeroLength(t *testing.T) {
	s, err := RandomFromCharset(0, "AB")
	require.NoError(t, err)
	assert.Empty(t, s)
}
