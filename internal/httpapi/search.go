package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/search"
)

func searchFilter(c *gin.Context) (search.Filter, error) {
	f := search.Filter{
		Term:   c.Query("q"),
		Kind:   c.Query("kind"),
		CaseID: c.Query("case_id"),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		return f, err
	}
	f.To, err = queryTime(c, "to")
	return f, err
}

func (h *Handlers) SearchRecords(c *gin.Context) {
	f, err := searchFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timestamp filter, want RFC 3339"})
		return
	}
	rows, err := h.Search.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rows, "count": len(rows)})
}

// ExportCSV dumps one collection as CSV: ?kind=evidence|submission with an
// optional case_id scope.
func (h *Handlers) ExportCSV(c *gin.Context) {
	userID, role := principal(c)
	kind := c.Query("kind")

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+kind+`-export.csv"`)
	err := h.Search.ExportCSV(c.Request.Context(), userID, role, c.ClientIP(), kind, c.Query("case_id"), c.Writer)
	if err != nil {
		// Nothing was streamed yet on a validation failure, so a JSON
		// error body is still possible.
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "")
		writeError(c, err)
	}
}

func (h *Handlers) ExportCaseReport(c *gin.Context) {
	userID, role := principal(c)
	caseID := c.Param("id")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="case-report-`+time.Now().UTC().Format("20060102")+`.pdf"`)
	err := h.Search.ExportCaseReport(c.Request.Context(), userID, role, c.ClientIP(), caseID, c.Writer)
	if err != nil {
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "")
		writeError(c, err)
	}
}
