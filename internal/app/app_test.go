package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// newMemoryApp wires an App in dev mode: local provider, everything
// in-memory.
func newMemoryApp(t *testing.T) (*App, *http.ServeMux) {
	t.Helper()

	t.Setenv("PREPAUTH_AUTH_SECRET_KEY", testSecret)

	cfg := LoadConfig()
	a, err := New(cfg, NewLogger("error"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.pool, a.rdb, a.registry, a.auth)
	return a, mux
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := LoadConfig()
	cfg.Provider = "cloud9"
	if _, err := New(cfg, NewLogger("error")); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNew_RemoteProviderRequiresConfig(t *testing.T) {
	cfg := LoadConfig()
	cfg.Provider = ProviderRemote
	if _, err := New(cfg, NewLogger("error")); err == nil {
		t.Fatalf("expected error without remote base url and key")
	}
}

func TestHealthAndReadiness(t *testing.T) {
	_, mux := newMemoryApp(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/readyz status %d", rec.Code)
	}
}

func TestReadiness_RequireDBWithoutDB(t *testing.T) {
	t.Setenv("PREPAUTH_AUTH_SECRET_KEY", testSecret)
	t.Setenv("PREPAUTH_READINESS_REQUIRE_DB", "true")

	cfg := LoadConfig()
	a, err := New(cfg, NewLogger("error"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.pool, a.rdb, a.registry, a.auth)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("/readyz status %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, mux := newMemoryApp(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("runtime metrics missing from /metrics")
	}
}

// TestFullAuthFlow drives signup, signin, /me, and signout end to end
// through the wired mux.
func TestFullAuthFlow(t *testing.T) {
	_, mux := newMemoryApp(t)

	post := func(path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			r.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, r)
		return rec
	}

	rec := post("/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"analytical-engine"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = post("/auth/signin", `{"email":"ada@example.com","password":"analytical-engine"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status %d, body %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	meRec := httptest.NewRecorder()
	mux.ServeHTTP(meRec, r)
	if meRec.Code != http.StatusOK {
		t.Fatalf("/me status %d", meRec.Code)
	}
	var me struct {
		User *struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(meRec.Body).Decode(&me); err != nil {
		t.Fatalf("decode /me: %v", err)
	}
	if me.User == nil || me.User.Email != "ada@example.com" {
		t.Fatalf("unexpected /me user: %+v", me.User)
	}

	rec = post("/auth/signout", "", cookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("signout status %d", rec.Code)
	}

	// The revoked session no longer resolves.
	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	meRec = httptest.NewRecorder()
	mux.ServeHTTP(meRec, r)
	if meRec.Code != http.StatusUnauthorized {
		t.Fatalf("/me after signout status %d", meRec.Code)
	}
}
