package apihandlers

import (
	"net/http"

	"clipnote/internal/models"

	"github.com/gin-gonic/gin"
)

type noteRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	IsAIGenerated bool     `json:"is_ai_generated"`
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *APIHandler) ListNotesHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}
	notes, err := h.Notes.ListNotes(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err, "Note")
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	c.JSON(http.StatusOK, notes)
}

func (h *APIHandler) CreateNoteHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	note := &models.Note{UserID: userID, Title: req.Title, Content: req.Content, Tags: req.Tags, IsAIGenerated: req.IsAIGenerated}
	if err := h.Notes.CreateNote(c.Request.Context(), note); err != nil {
		respondError(c, err, "Note")
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *APIHandler) GetNoteHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	note, err := h.Notes.GetNote(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "Note")
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *APIHandler) UpdateNoteHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	note := &models.Note{ID: id, UserID: userID, Title: req.Title, Content: req.Content, Tags: req.Tags, IsAIGenerated: req.IsAIGenerated}
	if err := h.Notes.UpdateNote(c.Request.Context(), note); err != nil {
		respondError(c, err, "Note")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note updated successfully", "note": note})
}

func (h *APIHandler) DeleteNoteHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.Notes.DeleteNote(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "Note")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

// AskAIHandler drafts a note with the LLM. The draft is not stored.
func (h *APIHandler) AskAIHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	draft, err := h.Notes.AskAI(c.Request.Context(), userID, req.Question)
	if err != nil {
		respondError(c, err, "Note")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"title":           draft.Title,
		"content":         draft.Content,
		"tags":            draft.Tags,
		"is_ai_generated": draft.IsAIGenerated,
	})
}
