package local

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prepauth/internal/identity"
)

// Token uses. ID tokens are the short-lived proof of a fresh password check;
// session credentials are the long-lived value stored in the cookie. Keeping
// the use inside the token prevents one from being replayed as the other.
const (
	useIDToken = "id"
	useSession = "session"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid"`
	Use string `json:"use"`
}

func (p *Provider) mintToken(uid, use, jti string, ttl time.Duration, now time.Time) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		UID: uid,
		Use: use,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.cfg.SecretKey)
}

// parseToken verifies the signature, issuer, and expiry (with clock skew) and
// enforces the expected use. Expired tokens map to the credential-expired
// kind; every other verification failure maps to invalid-credential.
func (p *Provider) parseToken(op, token, wantUse string) (tokenClaims, error) {
	var claims tokenClaims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return p.cfg.SecretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(p.cfg.ClockSkew),
	)
	if err != nil {
		kind := identity.ErrInvalidCredential
		// jwt/v5 joins validation failures; ErrTokenExpired stays matchable.
		if errors.Is(err, jwt.ErrTokenExpired) {
			kind = identity.ErrCredentialExpired
		}
		return tokenClaims{}, identity.OpError{Op: op, Kind: kind}
	}

	if claims.UID == "" || claims.Use != wantUse {
		return tokenClaims{}, identity.OpError{Op: op, Kind: identity.ErrInvalidCredential, Msg: "unexpected token use"}
	}

	return claims, nil
}
