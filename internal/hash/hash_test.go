package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	h, err := HashPassword("Secret123!")
	require.NoError(t, err)
	require.NotEqual(t, "Secret123!", h)

	require.True(t, CheckPassword(h, "Secret123!"))
	require.False(t, CheckPassword(h, "secret123!"))
	require.False(t, CheckPassword(h, ""))
}

func TestHashSalting(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.True(t, CheckPassword(h1, "same-password"))
	require.True(t, CheckPassword(h2, "same-password"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-bcrypt-hash", "anything"))
	require.False(t, CheckPassword("", "anything"))
}
