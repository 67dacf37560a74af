package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"evidence-platform/internal/auth"
	"evidence-platform/internal/rbac"
	"evidence-platform/pkg/logger"
)

const (
	authRateLimit    = 5
	authRateWindow   = 15 * time.Minute
	intakeRateLimit  = 20
	intakeRateWindow = time.Hour
	uploadRateLimit  = 50
	uploadRateWindow = time.Hour
)

// NewRouter wires the full route table. Passing rdb as nil disables rate
// limiting, which tests rely on.
func NewRouter(h *Handlers, tokens *auth.Manager, rdb *redis.Client, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if log != nil {
		r.Use(logger.Middleware(log))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth")
	if rdb != nil {
		authGroup.Use(RateLimit(rdb, "auth", authRateLimit, authRateWindow))
	}
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	// Public intake: no token required.
	intake := v1.Group("")
	if rdb != nil {
		intake.Use(RateLimit(rdb, "submission", intakeRateLimit, intakeRateWindow))
	}
	intake.POST("/submissions", h.CreateSubmission)

	// Every route below carries an explicit role check; token auth alone is
	// never sufficient.
	anyRole := rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleInvestigator, rbac.RoleViewer)
	caseworker := rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleInvestigator)

	authed := v1.Group("", auth.RequireAccessToken(tokens))
	{
		casesGroup := authed.Group("/cases")
		casesGroup.POST("", caseworker, h.CreateCase)
		casesGroup.GET("", anyRole, h.ListCases)
		casesGroup.GET("/:id", anyRole, h.GetCase)
		casesGroup.PUT("/:id", caseworker, h.UpdateCase)
		casesGroup.GET("/:id/evidence", anyRole, h.ListEvidence)
		casesGroup.GET("/:id/report", caseworker, h.ExportCaseReport)

		upload := authed.Group("/evidence", caseworker)
		if rdb != nil {
			upload.Use(RateLimit(rdb, "upload", uploadRateLimit, uploadRateWindow))
		}
		upload.POST("", h.UploadEvidence)
		authed.GET("/evidence/:id/download", anyRole, h.DownloadEvidence)

		authed.GET("/submissions", caseworker, h.ListSubmissions)

		authed.GET("/search", caseworker, h.SearchRecords)
		authed.GET("/search/export", caseworker, h.ExportCSV)

		authed.GET("/audit", rbac.RequireAnyRole(rbac.RoleAdmin), h.QueryAudit)
	}

	return r
}
