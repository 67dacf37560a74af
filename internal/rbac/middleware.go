package rbac

import (
	"errors"
	"net/http"

	"evidence-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows access if the caller has any of the provided roles.
// Every state-changing or sensitive-read route must carry this middleware;
// the decision itself lives in Authorize so handlers and middleware cannot
// drift apart.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := auth.Role(c.Request.Context())
		if err != nil {
			role = ""
		}

		switch err := Authorize(role, allowed...); {
		case err == nil:
			c.Next()
		case errors.Is(err, ErrNoPrincipal):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
	}
}
