package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/audit"
)

// QueryAudit exposes the ledger read-only. There is intentionally no write,
// update or delete endpoint for audit events.
func (h *Handlers) QueryAudit(c *gin.Context) {
	f := audit.Filter{
		ActorID:      c.Query("actor_id"),
		Action:       audit.Action(c.Query("action")),
		ResourceType: c.Query("resource_type"),
		Limit:        queryInt(c, "limit"),
		Offset:       queryInt(c, "offset"),
	}

	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp, want RFC 3339"})
		return
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp, want RFC 3339"})
		return
	}

	events, err := h.Audit.Query(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func queryTime(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
