package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"clipnote/internal/app"
	"clipnote/internal/auth"
	"clipnote/internal/models"
	"clipnote/internal/services"
	"clipnote/internal/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIHandler serves the HTTP API on top of the services.
type APIHandler struct {
	Auth    *services.AuthService
	Content *services.ContentService
	Notes   *services.NoteService
	Chat    *services.ChatService
	Tags    *services.TagService
	Costs   *services.CostService
	// JobClient is set when tag regeneration should run on the worker.
	JobClient store.JobClient
	JobStore  store.JobStore
	Health    Pinger
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{
		Auth:      a.AuthService,
		Content:   a.ContentService,
		Notes:     a.NoteService,
		Chat:      a.ChatService,
		Tags:      a.TagService,
		Costs:     a.CostService,
		JobClient: a.JobClient,
		JobStore:  a.Store,
		Health:    a.Store,
	}
}

// HealthHandler reports liveness and database reachability.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	if h.Health != nil {
		if err := h.Health.Ping(c.Request.Context()); err != nil {
			log.Warnf("Health check failed: %v", err)
			JSONError(c, http.StatusServiceUnavailable, "service_unavailable", "database unreachable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps service errors onto the JSON error envelope. resource
// names the entity in not-found messages.
func respondError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		BadRequest(c, publicMessage(err, models.ErrValidation))
	case errors.Is(err, models.ErrUnsupportedPlatform):
		BadRequest(c, models.ErrUnsupportedPlatform.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, models.ErrNotFound):
		NotFound(c, resource+" not found")
	case errors.Is(err, store.ErrDuplicate):
		Conflict(c, resource+" already exists")
	case errors.Is(err, models.ErrUnauthorized):
		Unauthorized(c, "Invalid username or password")
	case errors.Is(err, services.ErrLLMUnavailable):
		Unavailable(c, services.ErrLLMUnavailable.Error())
	default:
		log.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, "internal server error")
	}
}

// publicMessage strips the wrapped sentinel suffix from err.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func currentUser(c *gin.Context) (int64, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		Unauthorized(c, "missing user identity")
	}
	return id, ok
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, fmt.Sprintf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// parsePage reads limit and offset query parameters.
func parsePage(c *gin.Context) (limit, offset int, ok bool) {
	limit = defaultPageSize
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid limit: "+l)
			return 0, 0, false
		}
		limit = min(parsed, maxPageSize)
	}
	if o := c.Query("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			BadRequest(c, "invalid offset: "+o)
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}
