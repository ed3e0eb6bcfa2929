package everycred

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		APIURL:    srv.URL,
		APIToken:  "test-token",
		IssuerID:  "issuer-1",
		GroupID:   "group-1",
		SubjectID: "subject-1",
	})
}

func TestIsConfigured(t *testing.T) {
	require.False(t, Config{}.IsConfigured())
	require.True(t, Config{MockMode: true}.IsConfigured())
	require.False(t, Config{APIURL: "https://api", APIToken: "x"}.IsConfigured())
	require.True(t, Config{
		APIURL: "https://api", APIToken: "x", IssuerID: "i", SubjectID: "s",
	}.IsConfigured())
}

func TestIssueCredential(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/credentials", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CredentialRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Bo", req.StudentName)
		require.Equal(t, "issuer-1", req.IssuerID)
		require.Equal(t, "subject-1", req.SubjectID)

		json.NewEncoder(w).Encode(Credential{
			CredentialID:    "cred-123",
			VerificationURL: "https://verify.everycred.com/cred-123",
			Status:          "issued",
		})
	})

	cred, err := c.IssueCredential(context.Background(), CredentialRequest{
		StudentName: "Bo", StudentEmail: "bo@example.com", Degree: "BSc",
	})
	require.NoError(t, err)
	require.Equal(t, "cred-123", cred.CredentialID)
	require.Equal(t, "issued", cred.Status)
}

func TestListCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("size"))
		require.Equal(t, "issuer-1", r.URL.Query().Get("issuer_id"))

		w.Write([]byte(`{"credentials":[{"credential_id":"a"},{"credential_id":"b"}]}`))
	})

	creds, err := c.ListCredentials(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	require.Equal(t, "a", creds[0].CredentialID)
}

func TestVerifyCredential(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/credentials/cred-123", r.URL.Path)
		w.Write([]byte(`{"credential_id":"cred-123","status":"valid"}`))
	})

	cred, err := c.VerifyCredential(context.Background(), "cred-123")
	require.NoError(t, err)
	require.Equal(t, "valid", cred.Status)
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	})

	_, err := c.VerifyCredential(context.Background(), "missing")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.StatusCode)
	require.Contains(t, se.Body, "not found")
}

func TestMockMode(t *testing.T) {
	c := New(Config{MockMode: true})
	ctx := context.Background()

	cred, err := c.IssueCredential(ctx, CredentialRequest{StudentName: "Bo"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cred.CredentialID, "mock-"))
	require.Equal(t, "issued", cred.Status)

	creds, err := c.ListCredentials(ctx, 1, 10)
	require.NoError(t, err)
	require.Empty(t, creds)

	verified, err := c.VerifyCredential(ctx, "mock-abc")
	require.NoError(t, err)
	require.Equal(t, "valid", verified.Status)
	require.Equal(t, "mock-abc", verified.CredentialID)
}
