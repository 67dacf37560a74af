package httpapi

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/evidence"
)

// UploadEvidence accepts a multipart form with a "file" part and a "case_id"
// field and runs the intake pipeline on it.
func (h *Handlers) UploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	caseID := c.PostForm("case_id")

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	userID, role := principal(c)
	ev, err := h.Evidence.Intake(c.Request.Context(), userID, role, c.ClientIP(), evidence.IntakeRequest{
		CaseID:       caseID,
		Filename:     fileHeader.Filename,
		Content:      f,
		DeclaredSize: fileHeader.Size,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *Handlers) ListEvidence(c *gin.Context) {
	items, err := h.Evidence.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evidence": items, "count": len(items)})
}

func (h *Handlers) DownloadEvidence(c *gin.Context) {
	userID, role := principal(c)
	ev, rc, err := h.Evidence.Download(c.Request.Context(), userID, role, c.ClientIP(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+ev.Filename+`"`)
	c.Header("X-Content-Sha256", ev.DigestHex)
	c.DataFromReader(http.StatusOK, ev.Size, mimeType(ev.ContentType), rc, nil)
}

// mimeType maps the stored extension-derived type to a MIME type for the
// response; anything unrecognized streams as an opaque blob.
func mimeType(ext string) string {
	if ext == "" || ext == "unknown" {
		return "application/octet-stream"
	}
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
