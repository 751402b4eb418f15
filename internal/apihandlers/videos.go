package apihandlers

import (
	"fmt"
	"net/http"

	"clipnote/internal/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type urlRequest struct {
	URL string `json:"url"`
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// processResponse is the stored video plus a status message.
type processResponse struct {
	*models.Video
	Message string `json:"message"`
}

func (h *APIHandler) ProcessVideoHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	video, err := h.Content.ProcessURL(c.Request.Context(), userID, req.URL)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	if video.Status == models.VideoStatusPending {
		c.JSON(http.StatusAccepted, processResponse{Video: video, Message: fmt.Sprintf("%s content queued for processing", video.Platform)})
		return
	}
	c.JSON(http.StatusOK, processResponse{Video: video, Message: fmt.Sprintf("%s content processed successfully", video.Platform)})
}

// PreviewVideoHandler runs extraction and analysis without storing anything.
func (h *APIHandler) PreviewVideoHandler(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	preview, err := h.Content.PreviewURL(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": preview.Error == "", "preview": preview})
}

func (h *APIHandler) ListVideosHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}
	videos, err := h.Content.ListVideos(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (h *APIHandler) GetVideoHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	video, err := h.Content.GetVideo(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *APIHandler) DeleteVideoHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.Content.DeleteVideo(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (h *APIHandler) UpdateVideoTagsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	tags, err := h.Content.UpdateTags(c.Request.Context(), userID, id, req.Tags)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video tags updated successfully", "tags": tags})
}

func (h *APIHandler) UpdateVideoTitleHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req titleRequest
	// An empty body asks for the title to be fetched.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}
	title, err := h.Content.UpdateTitle(c.Request.Context(), userID, id, req.Title)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video title updated successfully", "title": title})
}

func (h *APIHandler) RegenerateTagsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tags, err := h.Content.RegenerateTags(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tags regenerated successfully", "tags": tags, "videoId": id})
}

// RegenerateAllTagsHandler runs inline, or on the worker when a job client
// is configured.
func (h *APIHandler) RegenerateAllTagsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if h.JobClient != nil {
		if err := h.JobClient.EnqueueRegenerateAllTags(c.Request.Context(), userID); err != nil {
			respondError(c, err, "Video")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Tag regeneration queued"})
		return
	}

	res, err := h.Content.RegenerateAllTags(c.Request.Context(), userID, nil)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	log.Infof("Regenerated tags for user %d: %d updated, %d failed", userID, res.Updated, res.Failed)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Processed %d videos", res.Processed),
		"results": res.Results,
		"updated": res.Updated,
		"failed":  res.Failed,
	})
}

func (h *APIHandler) FixTitlesHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.Content.FixTitles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Video")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Processed %d videos", res.Processed),
		"results": res.Results,
		"fixed":   res.Fixed,
		"failed":  res.Failed,
	})
}
