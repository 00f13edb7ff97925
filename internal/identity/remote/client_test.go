package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prepauth/internal/identity"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: apiError{Code: code, Message: message}})
}

func TestNewClient_InvalidConfig(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err != ErrConfig {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if _, err := NewClient(Config{BaseURL: "https://id.example.com"}, nil); err != ErrConfig {
		t.Fatalf("expected ErrConfig for missing api key, got %v", err)
	}
}

func TestCreateSessionCredential(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", got)
		}
		var in struct {
			IDToken   string `json:"id_token"`
			ExpiresIn int64  `json:"expires_in"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.IDToken != "id-token" || in.ExpiresIn != int64((7*24*time.Hour).Seconds()) {
			t.Errorf("unexpected request body: %+v", in)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"session_credential": "session-cred"})
	}))

	cred, err := c.CreateSessionCredential(context.Background(), "id-token", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionCredential: %v", err)
	}
	if cred != "session-cred" {
		t.Fatalf("unexpected credential %q", cred)
	}
}

func TestWireCodeTranslation(t *testing.T) {
	cases := []struct {
		name string
		code string
		want func(error) bool
	}{
		{"email exists", identity.CodeEmailAlreadyExists, identity.IsEmailExists},
		{"user not found", identity.CodeUserNotFound, identity.IsUserNotFound},
		{"invalid credential", identity.CodeInvalidCredential, identity.IsInvalidCredential},
		{"wrong password folds", identity.CodeWrongPassword, identity.IsInvalidCredential},
		{"id token expired", identity.CodeIDTokenExpired, identity.IsExpired},
		{"session expired folds", identity.CodeSessionCookieExpired, identity.IsExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusBadRequest, tc.code, "backend says no")
			}))

			_, err := c.VerifySessionCredential(context.Background(), "whatever", true)
			if err == nil || !tc.want(err) {
				t.Fatalf("code %s: wrong kind: %v", tc.code, err)
			}
		})
	}
}

func TestUnknownWireCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "auth/internal-error", "boom")
	}))

	_, err := c.GetUserByEmail(context.Background(), "ada@example.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	// Unknown codes must not masquerade as a known kind.
	for _, is := range []func(error) bool{
		identity.IsEmailExists, identity.IsUserNotFound,
		identity.IsInvalidCredential, identity.IsExpired, identity.IsRevoked,
	} {
		if is(err) {
			t.Fatalf("unknown code mapped to a known kind: %v", err)
		}
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))

	err := c.RevokeSessionCredential(context.Background(), "cred")
	if err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}

func TestGetUserByEmail_NormalizesQuery(t *testing.T) {
	var gotEmail string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		_ = json.NewEncoder(w).Encode(map[string]string{"uid": "u1", "email": "ada@example.com"})
	}))

	id, err := c.GetUserByEmail(context.Background(), " ADA@Example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if gotEmail != "ada@example.com" {
		t.Fatalf("query not normalized: %q", gotEmail)
	}
	if id.UID != "u1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifySessionCredential_Claims(t *testing.T) {
	iat := time.Now().Add(-time.Minute).Unix()
	exp := time.Now().Add(time.Hour).Unix()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uid": "u1", "session_id": "s1", "iat": iat, "exp": exp,
		})
	}))

	claims, err := c.VerifySessionCredential(context.Background(), "cred", true)
	if err != nil {
		t.Fatalf("VerifySessionCredential: %v", err)
	}
	if claims.UID != "u1" || claims.SessionID != "s1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.Unix() != exp || claims.IssuedAt.Unix() != iat {
		t.Fatalf("timestamps not preserved: %+v", claims)
	}
}
