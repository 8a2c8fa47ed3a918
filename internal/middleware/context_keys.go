package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wagetrack/wagetrack/internal/core/domain"
)

const actorCtxKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor resolved by the auth
// middleware. It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actorVal := c.Request.Context().Value(actorCtxKey)
	if actorVal == nil {
		return domain.Actor{}, false
	}
	actor, ok := actorVal.(domain.Actor)
	return actor, ok
}
