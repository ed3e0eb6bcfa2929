// Package everycred is a thin client for the EveryCRED credentialing
// API. Mock mode returns canned responses so the rest of the system can
// run without the external service.
package everycred

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	APIURL    string
	APIToken  string
	IssuerID  string
	GroupID   string
	SubjectID string
	MockMode  bool
}

func (c Config) IsConfigured() bool {
	if c.MockMode {
		return true
	}
	return c.APIURL != "" && c.APIToken != "" && c.IssuerID != "" && c.SubjectID != ""
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type CredentialRequest struct {
	StudentName    string `json:"student_name"`
	StudentEmail   string `json:"student_email"`
	Degree         string `json:"degree"`
	Program        string `json:"program"`
	Institution    string `json:"institution"`
	IssueDate      string `json:"issue_date"`
	CompletionDate string `json:"completion_date,omitempty"`
	IssuerID       string `json:"issuer_id,omitempty"`
	GroupID        string `json:"group_id,omitempty"`
	SubjectID      string `json:"subject_id,omitempty"`
}

type Credential struct {
	CredentialID    string `json:"credential_id"`
	VerificationURL string `json:"verification_url"`
	Status          string `json:"status"`
	IssuedAt        string `json:"issued_at"`
}

// StatusError is returned for non-2xx responses from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("everycred: api returned %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	u := strings.TrimRight(c.cfg.APIURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("everycred: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("everycred: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{StatusCode: res.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) IssueCredential(ctx context.Context, req CredentialRequest) (*Credential, error) {
	if c.cfg.MockMode {
		return &Credential{
			CredentialID:    "mock-" + uuid.NewString(),
			VerificationURL: "https://verify.everycred.com/mock",
			Status:          "issued",
			IssuedAt:        time.Now().UTC().Format(time.RFC3339),
		}, nil
	}
	req.IssuerID = c.cfg.IssuerID
	req.GroupID = c.cfg.GroupID
	req.SubjectID = c.cfg.SubjectID

	var cred Credential
	if err := c.do(ctx, http.MethodPost, "/credentials", nil, req, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (c *Client) ListCredentials(ctx context.Context, page, size int) ([]Credential, error) {
	if c.cfg.MockMode {
		return []Credential{}, nil
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	params.Set("issuer_id", c.cfg.IssuerID)

	var resp struct {
		Credentials []Credential `json:"credentials"`
	}
	if err := c.do(ctx, http.MethodGet, "/credentials", params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Credentials, nil
}

func (c *Client) VerifyCredential(ctx context.Context, credentialID string) (*Credential, error) {
	if c.cfg.MockMode {
		return &Credential{
			CredentialID:    credentialID,
			VerificationURL: "https://verify.everycred.com/mock",
			Status:          "valid",
			IssuedAt:        time.Now().UTC().Format(time.RFC3339),
		}, nil
	}
	var cred Credential
	if err := c.do(ctx, http.MethodGet, "/credentials/"+url.PathEscape(credentialID), nil, nil, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}
