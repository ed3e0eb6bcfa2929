package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderResetEmail(t *testing.T) {
	body, err := RenderResetEmail("Ann", "https://lms.example.com/reset-password?token=abc123")
	require.NoError(t, err)
	require.Contains(t, body, "Hi Ann,")
	require.Contains(t, body, `href="https://lms.example.com/reset-password?token=abc123"`)
	require.Contains(t, body, "Reset Your Password")
}

func TestRenderResetEmailEscapesName(t *testing.T) {
	body, err := RenderResetEmail("<script>alert(1)</script>", "https://lms.example.com/reset")
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}
