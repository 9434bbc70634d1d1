package httpserver

import (
	"context"
	"net/http"

	"driphorizon/internal/domain"
	"driphorizon/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "drip_session"
	identityKey   = "identity"
)

type ctxKey string

const sessionCtxKey ctxKey = "session"

type sessionState struct {
	ID       string
	Identity domain.Identity
}

// sessionMiddleware resolves the signed session cookie, issuing a new session when it is missing or forged.
func sessionMiddleware(store session.Store, signer *session.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if parsed, err := signer.Parse(raw); err == nil {
				id = parsed
			}
		}
		if id == "" {
			id = session.NewID()
			value, err := signer.Sign(id)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "could not start session"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, value, 0, "/", "", false, true)
		}

		state := sessionState{ID: id}
		if v, ok := store.Get(id, identityKey); ok {
			if identity, ok := v.(domain.Identity); ok {
				state.Identity = identity
			}
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, state)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func currentSession(c *gin.Context) sessionState {
	state, _ := c.Request.Context().Value(sessionCtxKey).(sessionState)
	return state
}

func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).Identity.Authenticated() {
			writeError(c, nil, domain.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentSession(c).Identity
		switch {
		case !identity.Authenticated():
			writeError(c, nil, domain.ErrUnauthorized)
		case !identity.Admin:
			writeError(c, nil, domain.ErrForbidden)
		default:
			c.Next()
			return
		}
		c.Abort()
	}
}
