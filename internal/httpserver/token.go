// internal/httpserver/token.go
//
// Round tokens bind a client to the round it created. A token is an HS256
// JWT carrying the round ID in "rid"; it is returned in the create response
// and set as an HttpOnly cookie. Routes under /rounds/{id} accept it from
// "Authorization: Bearer <token>" or the cookie.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const roundCookieName = "wordier_round"

// roundClaims are the JWT claims of a round token.
type roundClaims struct {
	RoundID string `json:"rid"`
	jwt.RegisteredClaims
}

// signRoundToken creates a token for round id expiring after the configured TTL.
func (s *Server) signRoundToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, roundClaims{
		RoundID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.opts.TokenSecret))
	return ss, exp, err
}

// parseRoundToken verifies tok and returns the round ID it grants.
func (s *Server) parseRoundToken(tok string) (string, error) {
	var claims roundClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.RoundID == "" {
		return "", errors.New("invalid round token")
	}
	return claims.RoundID, nil
}

// setRoundCookie writes the round token cookie with appropriate security
// attributes.
func (s *Server) setRoundCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     roundCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or the
// round cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(roundCookieName); err == nil {
		return c.Value
	}
	return ""
}

type ctxRoundKey struct{}

// requireRoundToken rejects requests whose token does not grant the round in
// the URL.
func (s *Server) requireRoundToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing round token")
			return
		}
		rid, err := s.parseRoundToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "")
			return
		}
		if rid != chi.URLParam(r, "id") {
			writeError(w, http.StatusForbidden, "forbidden", "token does not grant this round")
			return
		}
		ctx := context.WithValue(r.Context(), ctxRoundKey{}, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// roundID returns the round ID authorized by requireRoundToken.
func roundID(r *http.Request) string {
	id, _ := r.Context().Value(ctxRoundKey{}).(string)
	return id
}
