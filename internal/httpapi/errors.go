package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/cases"
	"evidence-platform/internal/evidence"
	"evidence-platform/internal/identity"
	"evidence-platform/internal/search"
	"evidence-platform/internal/submission"
	"evidence-platform/pkg/logger"
)

// writeError maps service errors onto HTTP statuses. Anything unrecognized is
// a 500 with a generic body; the detail goes to the log, not the client.
func writeError(c *gin.Context, err error) {
	var verr *submission.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, identity.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already exists"})
	case errors.Is(err, cases.ErrDuplicateNumber):
		c.JSON(http.StatusConflict, gin.H{"error": "case number already exists"})
	case errors.Is(err, evidence.ErrTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the upload size limit"})
	case errors.Is(err, evidence.ErrCaseNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown case"})
	case isInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, evidence.ErrStorage):
		logger.FromGin(c).Error("storage failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		logger.FromGin(c).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, cases.ErrInvalidArgument) ||
		errors.Is(err, evidence.ErrInvalidArgument) ||
		errors.Is(err, identity.ErrInvalidArgument) ||
		errors.Is(err, search.ErrInvalidArgument) ||
		errors.Is(err, submission.ErrInvalidArgument)
}

func isNotFound(err error) bool {
	return errors.Is(err, cases.ErrNotFound) ||
		errors.Is(err, evidence.ErrNotFound) ||
		errors.Is(err, identity.ErrNotFound) ||
		errors.Is(err, search.ErrNotFound)
}
