package middleware

import (
	"net/http"
	"strings"

	"stayhub/models"
	"stayhub/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// ActorAuthMiddleware resolves the caller from the bearer token into a
// request-scoped actor on the gin context. Token minting belongs to the
// external identity service; only verification happens here.
func ActorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		id, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		actorRole := models.ActorRole(role)
		switch actorRole {
		case models.RoleGuest, models.RoleHost:
		default:
			actorRole = models.RoleGuest
		}

		c.Set(actorContextKey, models.Actor{ID: id, Role: actorRole})
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor set by ActorAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
