package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/cases"
)

func (h *Handlers) CreateCase(c *gin.Context) {
	var req cases.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, role := principal(c)
	created, err := h.Cases.Create(c.Request.Context(), userID, role, c.ClientIP(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) GetCase(c *gin.Context) {
	found, err := h.Cases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handlers) ListCases(c *gin.Context) {
	f := cases.ListFilter{
		Status:     cases.Status(c.Query("status")),
		AssignedTo: c.Query("assigned_to"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}
	list, err := h.Cases.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": list, "count": len(list)})
}

func (h *Handlers) UpdateCase(c *gin.Context) {
	var req cases.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, role := principal(c)
	updated, err := h.Cases.Update(c.Request.Context(), userID, role, c.ClientIP(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}
