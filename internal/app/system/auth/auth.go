package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Conversation sessions                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	// DefaultSessionName is the cookie name used when none is configured.
	DefaultSessionName = "vhhtbot-session"

	conversationIDKey = "conversation_id"
)

// SessionManager keeps the conversation id of browser callers in a signed
// cookie, so follow-up questions reach the same conversation state without
// the client tracking ids.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// An empty sessionKey generates a random key; sessions then do not survive a
// restart, which is acceptable in development only. In production
// (secure=true) cookies are Secure + SameSite=None; otherwise Lax.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	key := []byte(sessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("generate session key")
		}
		logger.Warn("session key not configured; using an ephemeral random key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	} else {
		store.Options.SameSite = http.SameSiteLaxMode
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// ConversationID returns the conversation id stored in the caller's session
// cookie, minting and saving a new one when absent. A cookie that fails
// verification is replaced.
func (sm *SessionManager) ConversationID(w http.ResponseWriter, r *http.Request) string {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Debug("discarding unreadable session cookie", zap.Error(err))
	}
	if id, ok := sess.Values[conversationIDKey].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	sess.Values[conversationIDKey] = id
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("failed to save session", zap.Error(err))
	}
	return id
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer identity                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the caller as established by the access token.
// Token is the raw bearer token, forwarded to the platform backend for
// state-changing calls.
type Identity struct {
	UserID string
	Role   string
	Token  string
}

type ctxKey string

const identityKey ctxKey = "identity"

// CurrentIdentity returns the identity attached by LoadIdentity.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity attaches id to the request context.
func WithIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// Verifier checks HS256 access tokens issued by the platform backend.
type Verifier struct {
	secret []byte
	log    *zap.Logger
}

// NewVerifier returns a verifier for tokens signed with secret. With an
// empty secret tokens are forwarded unverified and carry no user id.
func NewVerifier(secret string, logger *zap.Logger) *Verifier {
	return &Verifier{secret: []byte(secret), log: logger}
}

// Verify parses token and returns the identity in its claims.
func (v *Verifier) Verify(token string) (Identity, error) {
	if len(v.secret) == 0 {
		return Identity{Token: token}, nil
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("verify access token: %w", err)
	}

	if tt, _ := claims["token_type"].(string); tt != "" && tt != "access" {
		return Identity{}, fmt.Errorf("verify access token: unexpected token_type %q", tt)
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	return Identity{UserID: userID, Role: role, Token: token}, nil
}

// LoadIdentity attaches the bearer identity to the request context when
// the Authorization header carries a valid token. Missing or invalid tokens
// leave the request anonymous; handlers decide what anonymity means.
func (v *Verifier) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := v.Verify(token)
		if err != nil {
			v.log.Debug("rejected bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, WithIdentity(r, id))
	})
}

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
