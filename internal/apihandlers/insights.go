package apihandlers

import (
	"net/http"

	"clipnote/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListTagsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tags, err := h.Tags.ListTags(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Tag")
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *APIHandler) ListCostsHandler(c *gin.Context) {
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}
	logs, err := h.Costs.ListUsage(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Usage log")
		return
	}
	if logs == nil {
		logs = []*models.AIUsageLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *APIHandler) CostSummaryHandler(c *gin.Context) {
	totals, err := h.Costs.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Usage summary")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// ListJobsHandler lists recorded background jobs, newest first.
func (h *APIHandler) ListJobsHandler(c *gin.Context) {
	if h.JobStore == nil {
		c.JSON(http.StatusOK, []*models.BackgroundJob{})
		return
	}
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}
	jobs, err := h.JobStore.ListJobs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Job")
		return
	}
	if jobs == nil {
		jobs = []*models.BackgroundJob{}
	}
	c.JSON(http.StatusOK, jobs)
}
