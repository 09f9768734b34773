package gateway

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// sessionClaims scopes a bearer token to exactly one session, so a
// token minted for one client cannot be replayed against another
// session's fields.
type sessionClaims struct {
	jwt.StandardClaims
	SessionID string `json:"sid"`
}

// Authenticator mints and validates the bearer tokens POST /sessions
// hands back to its caller.
type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey []byte) *Authenticator {
	return &Authenticator{signingKey: signingKey}
}

func (a *Authenticator) IssueToken(sessionID string) (string, error) {

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
	})
	return token.SignedString(a.signingKey)
}

func (a *Authenticator) verify(tokenString, sessionID string) error {

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return fmt.Errorf("gateway: bearer token is not scoped to session %q", sessionID)
	}
	return nil
}

// RequireSessionToken is gin middleware that validates the request's
// "Authorization: Bearer <token>" header against the :id path
// parameter before the handler it guards runs.
func (a *Authenticator) RequireSessionToken() gin.HandlerFunc {
	return func(c *gin.Context) {

		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing bearer token"})
			return
		}

		sessionID := c.Param("id")
		if err := a.verify(strings.TrimPrefix(header, prefix), sessionID); err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
