// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "studio_session"
	ContextSessionID  = "sessionId"
)

// Generate a random session signing key
func GenerateSessionSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate session secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// SessionTokens signs and verifies the session cookie.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token naming the session.
func (t *SessionTokens) Issue(id uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	return token.SignedString(t.secret)
}

// Parse verifies a token and returns the session id it carries.
func (t *SessionTokens) Parse(tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("invalid session token")
	}
	return uuid.Parse(claims.Subject)
}

// SessionMiddleware puts the session id from a valid cookie on the context.
// Visitors without one are let through; a session is mounted for them on
// first use.
func SessionMiddleware(tokens *SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			if id, err := tokens.Parse(raw); err == nil {
				c.Set(ContextSessionID, id)
			}
		}
		c.Next()
	}
}

// SessionID returns the id placed by SessionMiddleware, or uuid.Nil.
func SessionID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextSessionID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// SetSessionCookie issues a fresh cookie for id.
func SetSessionCookie(c *gin.Context, tokens *SessionTokens, id uuid.UUID) error {
	token, err := tokens.Issue(id)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(tokens.ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
	c.Set(ContextSessionID, id)
	return nil
}
