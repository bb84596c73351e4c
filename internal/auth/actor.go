package auth

import (
	"net/http"

	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// Actor is the authenticated caller of a core operation. It is always passed
// explicitly; core services never read identity from ambient request state.
type Actor struct {
	ID   string
	Role models.UserRole
}

// IsAdmin reports whether the actor holds the administrative override role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

const actorKey = "auth.actor"

// Middleware extracts the gateway-injected identity headers. Token
// verification happens upstream (external auth service); this service trusts
// X-User-Id and X-User-Role on its internal listener.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-Id")
		role := c.GetHeader("X-User-Role")

		if id == "" || !models.ValidRole(role) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid identity headers"})
			c.Abort()
			return
		}

		c.Set(actorKey, Actor{ID: id, Role: models.UserRole(role)})
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := FromContext(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
		c.Abort()
	}
}

// FromContext returns the actor set by Middleware. Zero value when the route
// was not behind the middleware.
func FromContext(c *gin.Context) Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(Actor); ok {
			return a
		}
	}
	return Actor{}
}
