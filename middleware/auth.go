package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const UsernameKey contextKey = "username"

// SessionCookie carries the session token for browser clients
const SessionCookie = "mafia_session"

var ErrInvalidSession = errors.New("invalid session")

// SessionStore tracks which issued sessions are still open. Tokens whose
// session was closed stop verifying before they expire.
type SessionStore interface {
	OpenSession(id, username string, expires time.Time)
	SessionOpen(id, username string) bool
	CloseSession(id string)
}

// SessionAuth issues and verifies HS256 session tokens
type SessionAuth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	store  SessionStore
}

// NewSessionAuth signs tokens with secret. With a nil store tokens are
// stateless and stay valid until they expire.
func NewSessionAuth(secret string, ttl time.Duration, store SessionStore) *SessionAuth {
	return &SessionAuth{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		store:  store,
	}
}

// Issue returns a signed token for username and its expiry
func (a *SessionAuth) Issue(username string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	if a.store != nil {
		a.store.OpenSession(claims.ID, username, expires)
	}
	return token, expires, nil
}

// Verify returns the username a token was issued for
func (a *SessionAuth) Verify(token string) (string, error) {
	claims, err := a.parse(token)
	if err != nil {
		return "", err
	}
	if a.store != nil && !a.store.SessionOpen(claims.ID, claims.Subject) {
		return "", fmt.Errorf("%w: session closed", ErrInvalidSession)
	}
	return claims.Subject, nil
}

// Revoke closes the session behind the request's token, if it has one
func (a *SessionAuth) Revoke(r *http.Request) {
	token := sessionToken(r)
	if token == "" || a.store == nil {
		return
	}
	claims, err := a.parse(token)
	if err != nil {
		return
	}
	a.store.CloseSession(claims.ID)
	log.Printf("Session closed for %s", claims.Subject)
}

func (a *SessionAuth) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// RequireSession rejects requests without a valid session
func (a *SessionAuth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		username, err := a.Verify(token)
		if err != nil {
			log.Printf("Session verification failed: %v", err)
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalSession - allows requests with or without a session
func (a *SessionAuth) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := sessionToken(r); token != "" {
			if username, err := a.Verify(token); err == nil {
				ctx := context.WithValue(r.Context(), UsernameKey, username)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SetCookie stores token in the session cookie
func (a *SessionAuth) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *SessionAuth) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken prefers the Authorization header over the cookie
func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != authHeader {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// GetUsername extracts the authenticated username from context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}

// WithUsername returns ctx carrying username, as RequireSession does
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
