package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionCookie is the cookie carrying the signed session token.
const DefaultSessionCookie = "sd_session"

// Authenticator resolves the authenticated principal for a request.
// A (nil, nil) return means "no authenticated principal"; a non-nil error
// means the session backend could not be consulted. Callers treat both as
// unauthenticated, but errors are logged.
type Authenticator interface {
	GetCurrentPrincipal(r *http.Request) (*Principal, error)
}

// SessionStore creates and destroys server-side sessions.
type SessionStore interface {
	Authenticator
	Create(ctx context.Context, p *Principal) (token string, err error)
	Destroy(ctx context.Context, r *http.Request) error
}

// sessionRecord is the JSON payload stored in redis per session.
type sessionRecord struct {
	SessionID   string    `json:"session_id"`
	PrincipalID int64     `json:"principal_id"`
	Email       string    `json:"email,omitempty"`
	FullName    string    `json:"full_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RedisSessionStore keeps session records in redis keyed by session ID and
// hands clients a signed JWT that carries only that ID. Expiry is enforced
// twice: the JWT carries an exp claim and the redis key carries a TTL, so a
// leaked signing key alone cannot resurrect a destroyed session.
type RedisSessionStore struct {
	client     *redis.Client
	signingKey []byte
	cookieName string
	ttl        time.Duration
}

// NewRedisSessionStore creates a session store backed by redis.
func NewRedisSessionStore(client *redis.Client, signingKey []byte, cookieName string, ttl time.Duration) *RedisSessionStore {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{
		client:     client,
		signingKey: signingKey,
		cookieName: cookieName,
		ttl:        ttl,
	}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Create stores a new session for the principal and returns the signed token.
func (s *RedisSessionStore) Create(ctx context.Context, p *Principal) (string, error) {
	if p == nil {
		return "", fmt.Errorf("principal is required")
	}

	rec := sessionRecord{
		SessionID:   uuid.NewString(),
		PrincipalID: p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(rec.SessionID), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   rec.SessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, nil
}

// GetCurrentPrincipal resolves the principal for the request's session
// cookie. Missing, malformed, expired or unknown sessions all resolve to
// (nil, nil); only a redis failure returns an error.
func (s *RedisSessionStore) GetCurrentPrincipal(r *http.Request) (*Principal, error) {
	sessionID := s.sessionIDFromRequest(r)
	if sessionID == "" {
		return nil, nil
	}

	data, err := s.client.Get(r.Context(), sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// Corrupt record; drop it rather than serve it.
		s.client.Del(r.Context(), sessionKey(sessionID))
		return nil, nil
	}

	return &Principal{
		ID:       rec.PrincipalID,
		Email:    rec.Email,
		FullName: rec.FullName,
		IsActive: true,
	}, nil
}

// Destroy removes the session referenced by the request, if any.
func (s *RedisSessionStore) Destroy(ctx context.Context, r *http.Request) error {
	sessionID := s.sessionIDFromRequest(r)
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// CookieName returns the cookie the store reads tokens from.
func (s *RedisSessionStore) CookieName() string {
	return s.cookieName
}

// sessionIDFromRequest extracts and verifies the session token, returning
// the embedded session ID or "" when the request carries no usable session.
func (s *RedisSessionStore) sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return ""
	}
	return claims.Subject
}
