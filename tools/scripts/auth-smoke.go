// Package main provides a CI-friendly smoke test for the prepauth server.
//
// It validates, against a running instance:
//   - signup returns the created result
//   - duplicate signup conflicts
//   - signin sets the session cookie
//   - /me resolves the signed-in user
//   - signout expires the cookie and /me returns 401
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type meResponse struct {
	User *struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func main() {
	var (
		baseURL = flag.String("url", "http://127.0.0.1:8080", "prepauth base URL")
		email   = flag.String("email", "", "account email (default: generated)")
		name    = flag.String("name", "Smoke Test", "account display name")
		pass    = flag.String("password", "smoke-test-password", "account password")
		timeout = flag.Duration("timeout", 7*time.Second, "per-request timeout")
		verbose = flag.Bool("v", false, "verbose output")
	)
	flag.Parse()

	if err := validateBaseURL(*baseURL); err != nil {
		fatalf("invalid -url: %v", err)
	}

	addr := *email
	if addr == "" {
		addr = fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: *timeout}

	// Signup.
	res := mustPostJSON(client, *baseURL+"/auth/signup", map[string]string{
		"name": *name, "email": addr, "password": *pass,
	}, http.StatusCreated)
	if !res.Success {
		fatalf("signup failed: %q", res.Message)
	}
	if *verbose {
		fmt.Printf("signup: %s\n", res.Message)
	}

	// Duplicate signup must conflict.
	res = mustPostJSON(client, *baseURL+"/auth/signup", map[string]string{
		"name": *name, "email": addr, "password": *pass,
	}, http.StatusConflict)
	if res.Success {
		fatalf("duplicate signup succeeded")
	}

	// Signin sets the session cookie.
	mustPostJSON(client, *baseURL+"/auth/signin", map[string]string{
		"email": addr, "password": *pass,
	}, http.StatusOK)
	if !hasSessionCookie(jar, *baseURL) {
		fatalf("no session cookie after signin")
	}

	// /me resolves the signed-in user.
	me := mustGetMe(client, *baseURL, http.StatusOK)
	if me.User == nil || me.User.Email != addr {
		fatalf("/me mismatch: %+v", me.User)
	}
	if *verbose {
		fmt.Printf("me: id=%s name=%q\n", me.User.ID, me.User.Name)
	}

	// Signout, then /me must be anonymous again.
	req, err := http.NewRequest(http.MethodPost, *baseURL+"/auth/signout", nil)
	if err != nil {
		fatalf("signout request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		fatalf("signout: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		fatalf("signout status: %d", resp.StatusCode)
	}

	mustGetMe(client, *baseURL, http.StatusUnauthorized)

	fmt.Printf("OK: email=%s\n", addr)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func mustPostJSON(client *http.Client, rawURL string, body map[string]string, wantStatus int) result {
	buf, err := json.Marshal(body)
	if err != nil {
		fatalf("marshal request: %v", err)
	}

	resp, err := client.Post(rawURL, "application/json", bytes.NewReader(buf))
	if err != nil {
		fatalf("POST %s: %v", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		fatalf("POST %s: status=%d want=%d", rawURL, resp.StatusCode, wantStatus)
	}

	var res result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		fatalf("decode %s response: %v", rawURL, err)
	}
	return res
}

func mustGetMe(client *http.Client, baseURL string, wantStatus int) meResponse {
	resp, err := client.Get(baseURL + "/me")
	if err != nil {
		fatalf("GET /me: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		fatalf("GET /me: status=%d want=%d", resp.StatusCode, wantStatus)
	}

	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		fatalf("decode /me response: %v", err)
	}
	return me
}

func hasSessionCookie(jar http.CookieJar, baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == "session" && c.Value != "" {
			return true
		}
	}
	return false
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
