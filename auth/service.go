package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName matches the storage key the browser client always used.
const CookieName = "token"

var (
	ErrNoSession      = errors.New("no session")
	ErrSessionExpired = errors.New("session expired")
)

// Claims is the payload of the signed session cookie. The bearer credential
// itself stays in the TokenStore under SessionID.
type Claims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Principal is the authenticated operator attached to a request.
type Principal struct {
	SessionID string
	Username  string
	Token     string
}

type Manager struct {
	store  TokenStore
	key    []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store TokenStore, secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, key: []byte(secret), ttl: ttl, secure: secure}
}

// Session returns the credential slot for a session id.
func (m *Manager) Session(sessionID string) *Session {
	return NewSession(m.store, sessionID)
}

// Start stores token under a new session id and returns the cookie that
// names it.
func (m *Manager) Start(ctx context.Context, username, token string) (*http.Cookie, Principal, error) {
	sid := uuid.NewString()
	if err := m.Session(sid).SetToken(ctx, token); err != nil {
		return nil, Principal{}, fmt.Errorf("store credential: %w", err)
	}

	expirationTime := time.Now().Add(m.ttl)
	if exp, ok := CredentialExpiry(token); ok && exp.Before(expirationTime) {
		expirationTime = exp
	}
	claims := &Claims{
		SessionID: sid,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return nil, Principal{}, err
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Expires:  expirationTime,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
	return cookie, Principal{SessionID: sid, Username: username, Token: token}, nil
}

// End clears the stored credential and returns a cookie that removes the
// browser's copy.
func (m *Manager) End(ctx context.Context, sessionID string) (*http.Cookie, error) {
	err := m.Session(sessionID).SetToken(ctx, "")
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		Path:     "/",
	}, err
}

// Authenticate resolves the request's session cookie to a principal.
func (m *Manager) Authenticate(r *http.Request) (Principal, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Principal{}, ErrNoSession
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.SessionID == "" {
		return Principal{}, ErrNoSession
	}

	session := m.Session(claims.SessionID)
	token, err := session.GetToken(r.Context())
	if err != nil {
		return Principal{}, err
	}
	if token == "" {
		return Principal{}, ErrNoSession
	}
	if CredentialExpired(token, time.Now()) {
		if err := session.SetToken(r.Context(), ""); err != nil {
			log.Printf("clear expired session %s: %v", claims.SessionID, err)
		}
		return Principal{}, ErrSessionExpired
	}
	return Principal{SessionID: claims.SessionID, Username: claims.Username, Token: token}, nil
}

// Middleware sends requests without a live session to the login page.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.Authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				log.Printf("session check: %v", err)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// CredentialExpiry reads the exp claim of a JWT bearer credential without
// verifying it. Opaque credentials report ok=false.
func CredentialExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func CredentialExpired(token string, now time.Time) bool {
	exp, ok := CredentialExpiry(token)
	return ok && !now.Before(exp)
}
