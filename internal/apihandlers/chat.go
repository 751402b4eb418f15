package apihandlers

import (
	"net/http"
	"strconv"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/services"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message"`
}

// chatEntry is one stored exchange as the chat page renders it.
type chatEntry struct {
	ID            int64                `json:"id"`
	Message       string               `json:"message"`
	Response      string               `json:"response"`
	MatchedVideos []models.MatchedItem `json:"matched_videos"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (h *APIHandler) ChatHistoryHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit := services.DefaultHistoryLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid limit: "+l)
			return
		}
		limit = parsed
	}
	msgs, err := h.Chat.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err, "Chat history")
		return
	}
	out := make([]chatEntry, 0, len(msgs))
	for _, m := range msgs {
		matched := m.MatchedItems
		if matched == nil {
			matched = []models.MatchedItem{}
		}
		out = append(out, chatEntry{ID: m.ID, Message: m.Message, Response: m.Response, MatchedVideos: matched, CreatedAt: m.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

func (h *APIHandler) ChatSendHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	reply, err := h.Chat.Send(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondError(c, err, "Chat")
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *APIHandler) ChatClearHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.Chat.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Chat history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared successfully", "deleted": n})
}
