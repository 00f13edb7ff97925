package session

import (
	"net/http"
	"strings"
	"time"
)

func (a *Authenticator) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    value,
		Path:     a.cfg.CookiePath,
		Domain:   a.cfg.CookieDomain,
		MaxAge:   int(a.cfg.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   a.cfg.CookieSecure,
		SameSite: a.cfg.CookieSameSite,
	})
}

func (a *Authenticator) expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     a.cfg.CookiePath,
		Domain:   a.cfg.CookieDomain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.CookieSecure,
		SameSite: a.cfg.CookieSameSite,
	})
}

func (a *Authenticator) sessionCookieValue(r *http.Request) (string, bool) {
	c, err := r.Cookie(a.cfg.CookieName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}
