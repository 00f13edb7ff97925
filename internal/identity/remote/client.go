package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prepauth/internal/identity"
)

var (
	_ identity.Provider              = (*Client)(nil)
	_ identity.PasswordAuthenticator = (*Client)(nil)
	_ identity.SessionRevoker        = (*Client)(nil)
)

// ErrConfig indicates an invalid client configuration.
var ErrConfig = errors.New("remote: invalid config")

const maxResponseBytes = 1 << 20

// Config holds the connection settings for a hosted identity backend.
type Config struct {
	// BaseURL is the backend's API root, e.g. https://identity.example.com/v1.
	BaseURL string
	// APIKey is sent as a bearer token on every request.
	APIKey string
	// Timeout bounds each request. Zero means 10s.
	Timeout time.Duration
}

func (c Config) validate() error {
	if c.BaseURL == "" || c.APIKey == "" {
		return ErrConfig
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return ErrConfig
	}
	return nil
}

// Client talks to the backend over HTTP. Safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a Client. Pass httpClient nil to use a default client
// with the configured timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// apiError is the backend's error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// do sends a JSON request and decodes a JSON response. Non-2xx responses
// are translated to error kinds via the wire-code table; codes we do not
// recognize surface as an opaque error carrying the backend message.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.translateError(op, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

func (c *Client) translateError(op string, status int, raw []byte) error {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Code != "" {
		if kind := identity.KindForCode(er.Error.Code); kind != nil {
			return identity.OpError{Op: op, Kind: kind, Msg: er.Error.Message}
		}
		return fmt.Errorf("%s: backend error %s: %s", op, er.Error.Code, er.Error.Message)
	}
	return fmt.Errorf("%s: backend status %d", op, status)
}

// CreateAccount registers an email/password account on the backend.
func (c *Client) CreateAccount(ctx context.Context, email, name, password string) (identity.Identity, error) {
	const op = "remote.CreateAccount"

	in := struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}{email, name, password}
	var out struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/accounts", in, &out); err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{UID: out.UID, Email: out.Email}, nil
}

// SignInWithPassword exchanges a password for a short-lived ID token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	const op = "remote.SignInWithPassword"

	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		IDToken string `json:"id_token"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/token", in, &out); err != nil {
		return "", err
	}
	return out.IDToken, nil
}

// CreateSessionCredential exchanges a verified ID token for a session
// credential with the given lifetime.
func (c *Client) CreateSessionCredential(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	const op = "remote.CreateSessionCredential"

	in := struct {
		IDToken   string `json:"id_token"`
		ExpiresIn int64  `json:"expires_in"`
	}{idToken, int64(ttl.Seconds())}
	var out struct {
		SessionCredential string `json:"session_credential"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/sessions", in, &out); err != nil {
		return "", err
	}
	return out.SessionCredential, nil
}

// VerifySessionCredential asks the backend to verify a session credential.
func (c *Client) VerifySessionCredential(ctx context.Context, credential string, checkRevoked bool) (identity.Claims, error) {
	const op = "remote.VerifySessionCredential"

	in := struct {
		SessionCredential string `json:"session_credential"`
		CheckRevoked      bool   `json:"check_revoked"`
	}{credential, checkRevoked}
	var out struct {
		UID       string `json:"uid"`
		SessionID string `json:"session_id"`
		IssuedAt  int64  `json:"iat"`
		ExpiresAt int64  `json:"exp"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/sessions/verify", in, &out); err != nil {
		return identity.Claims{}, err
	}
	return identity.Claims{
		UID:       out.UID,
		SessionID: out.SessionID,
		IssuedAt:  time.Unix(out.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(out.ExpiresAt, 0).UTC(),
	}, nil
}

// GetUserByEmail resolves an identity by email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (identity.Identity, error) {
	const op = "remote.GetUserByEmail"

	var out struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
	}
	path := "/users?email=" + url.QueryEscape(identity.NormalizeEmail(email))
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{UID: out.UID, Email: out.Email}, nil
}

// RevokeSessionCredential revokes the credential's session on the backend.
func (c *Client) RevokeSessionCredential(ctx context.Context, credential string) error {
	const op = "remote.RevokeSessionCredential"

	in := struct {
		SessionCredential string `json:"session_credential"`
	}{credential}
	return c.do(ctx, op, http.MethodPost, "/sessions/revoke", in, nil)
}
