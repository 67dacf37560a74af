package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/submission"
)

// CreateSubmission is the one unauthenticated write endpoint: public intake
// of tips and reports.
func (h *Handlers) CreateSubmission(c *gin.Context) {
	var req submission.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sub, err := h.Submissions.Create(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handlers) ListSubmissions(c *gin.Context) {
	f := submission.ListFilter{
		CaseID: c.Query("case_id"),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	list, err := h.Submissions.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": list, "count": len(list)})
}
