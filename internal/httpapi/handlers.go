// Package httpapi exposes the platform services over HTTP. Handlers stay
// thin: bind, call the service, map the error.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"evidence-platform/internal/audit"
	"evidence-platform/internal/auth"
	"evidence-platform/internal/cases"
	"evidence-platform/internal/evidence"
	"evidence-platform/internal/identity"
	"evidence-platform/internal/search"
	"evidence-platform/internal/submission"
)

type Handlers struct {
	Identity    *identity.Service
	Cases       *cases.Service
	Evidence    *evidence.Service
	Submissions *submission.Service
	Search      *search.Service
	Audit       *audit.Service
}

// principal pulls the authenticated identity out of the request context.
// Routes behind RequireAccessToken always have one.
func principal(c *gin.Context) (userID, role string) {
	ctx := c.Request.Context()
	userID, _ = auth.UserID(ctx)
	role, _ = auth.Role(ctx)
	return userID, role
}
