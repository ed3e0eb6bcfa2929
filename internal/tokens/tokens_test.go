package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New([]byte("test-secret"), "HS256")
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(nil, "HS256")
	require.Error(t, err)

	_, err = New([]byte("secret"), "RS256")
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestService(t)

	raw, err := s.IssueAccess("42", "ann@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "42", claims.UserID)
	require.Equal(t, "ann@example.com", claims.Email)
	require.Empty(t, claims.Type)
}

func TestVerifyStripsBearerPrefix(t *testing.T) {
	s := newTestService(t)

	raw, err := s.IssueAccess("42", "ann@example.com")
	require.NoError(t, err)

	claims, err := s.Verify("Bearer " + raw)
	require.NoError(t, err)
	require.Equal(t, "42", claims.UserID)
}

func TestVerifyMalformed(t *testing.T) {
	s := newTestService(t)

	_, err := s.Verify("not.a.token")
	require.ErrorIs(t, err, ErrMalformed)

	other, err := New([]byte("other-secret"), "HS256")
	require.NoError(t, err)
	raw, err := other.IssueAccess("42", "ann@example.com")
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestTokenExpiry(t *testing.T) {
	s := newTestService(t)
	issued := time.Now()
	s.Now = func() time.Time { return issued }

	raw, err := s.IssueAccess("42", "ann@example.com")
	require.NoError(t, err)

	s.Now = func() time.Time { return issued.Add(s.AccessTTL - time.Minute) }
	_, err = s.Verify(raw)
	require.NoError(t, err)

	s.Now = func() time.Time { return issued.Add(s.AccessTTL + time.Minute) }
	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestRefreshTypeDiscrimination(t *testing.T) {
	s := newTestService(t)

	refresh, err := s.IssueRefresh("42", "ann@example.com")
	require.NoError(t, err)
	claims, err := s.VerifyRefresh(refresh)
	require.NoError(t, err)
	require.Equal(t, TypeRefresh, claims.Type)

	access, err := s.IssueAccess("42", "ann@example.com")
	require.NoError(t, err)
	_, err = s.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrWrongType)

	reset, err := s.IssueReset("42", "ann@example.com")
	require.NoError(t, err)
	_, err = s.VerifyRefresh(reset)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestResetTokenCarriesJTI(t *testing.T) {
	s := newTestService(t)

	raw, err := s.IssueReset("42", "ann@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, TypePasswordReset, claims.Type)
	require.NotEmpty(t, claims.ID)

	raw2, err := s.IssueReset("42", "ann@example.com")
	require.NoError(t, err)
	claims2, err := s.Verify(raw2)
	require.NoError(t, err)
	require.NotEqual(t, claims.ID, claims2.ID)
}
