package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/pkg/logger"
)

const (
	headerAPIKey = "X-API-Key"
	headerAuth   = "Authorization"
	bearerPrefix = "Bearer "

	identityKey = "identity"
)

// ErrInvalidToken is returned by a TokenVerifier for an unknown or malformed token.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller.
type Identity struct {
	UID   string
	Email string
}

// DisplayName returns the email when known, otherwise the uid.
func (i *Identity) DisplayName() string {
	if i.Email != "" {
		return i.Email
	}
	return i.UID
}

// TokenVerifier maps a bearer token to an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type staticToken struct {
	token    []byte
	identity Identity
}

// StaticTokenVerifier accepts a fixed set of tokens from configuration.
type StaticTokenVerifier struct {
	tokens []staticToken
}

// NewStaticTokenVerifier parses entries of the form "token:uid[:email]".
func NewStaticTokenVerifier(entries []string) (*StaticTokenVerifier, error) {
	v := &StaticTokenVerifier{tokens: make([]staticToken, 0, len(entries))}
	for i, entry := range entries {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("auth token %d: expected token:uid[:email]", i)
		}
		id := Identity{UID: parts[1]}
		if len(parts) == 3 {
			id.Email = parts[2]
		}
		v.tokens = append(v.tokens, staticToken{token: []byte(parts[0]), identity: id})
	}
	return v, nil
}

// Verify compares token against every configured token in constant time.
func (v *StaticTokenVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	provided := []byte(token)
	var match *Identity
	for i := range v.tokens {
		if subtle.ConstantTimeCompare(provided, v.tokens[i].token) == 1 && match == nil {
			id := v.tokens[i].identity
			match = &id
		}
	}
	if match == nil {
		return nil, ErrInvalidToken
	}
	return match, nil
}

// Auth rejects requests without a valid token and stores the caller's
// Identity in the gin context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	log := logger.Named("auth")

	return func(c *gin.Context) {
		token := extractToken(c.Request)

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Warn("Unauthorized request",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("clientIp", c.ClientIP()),
				zap.Bool("tokenPresent", token != ""),
			)
			message := "Invalid token"
			if token == "" {
				message = "Access token required"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Timestamp: time.Now(),
				Status:    http.StatusUnauthorized,
				Error:     "Unauthorized",
				Message:   message,
				Path:      c.Request.URL.Path,
			})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}

// extractToken checks the X-API-Key header first, then Authorization: Bearer.
func extractToken(r *http.Request) string {
	if key := r.Header.Get(headerAPIKey); key != "" {
		return key
	}

	authHeader := r.Header.Get(headerAuth)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	}

	return ""
}
