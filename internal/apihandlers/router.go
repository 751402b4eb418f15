package apihandlers

import (
	"clipnote/internal/auth"
	"clipnote/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Metrics bool // Serve /metrics and record request metrics
}

// NewRouter registers every route. Everything under /api except register
// and login requires a bearer token.
func NewRouter(h *APIHandler, tokens *auth.JWTManager, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	if opts.Metrics {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	router.GET("/health", h.HealthHandler)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.RegisterHandler)
		authGroup.POST("/login", h.LoginHandler)
		authGroup.GET("/verify", auth.Middleware(tokens), h.VerifyHandler)
	}

	protected := api.Group("", auth.Middleware(tokens))
	{
		videos := protected.Group("/videos")
		videos.POST("/process", h.ProcessVideoHandler)
		videos.POST("/preview", h.PreviewVideoHandler)
		videos.GET("", h.ListVideosHandler)
		videos.GET("/:id", h.GetVideoHandler)
		videos.DELETE("/:id", h.DeleteVideoHandler)
		videos.PUT("/:id/tags", h.UpdateVideoTagsHandler)
		videos.PUT("/:id/title", h.UpdateVideoTitleHandler)
		videos.POST("/:id/regenerate-tags", h.RegenerateTagsHandler)
		videos.POST("/regenerate-all-tags", h.RegenerateAllTagsHandler)
		videos.POST("/fix-titles", h.FixTitlesHandler)

		notes := protected.Group("/notes")
		notes.GET("", h.ListNotesHandler)
		notes.POST("", h.CreateNoteHandler)
		notes.POST("/ask-ai", h.AskAIHandler)
		notes.GET("/:id", h.GetNoteHandler)
		notes.PUT("/:id", h.UpdateNoteHandler)
		notes.DELETE("/:id", h.DeleteNoteHandler)

		chat := protected.Group("/chat/global")
		chat.GET("", h.ChatHistoryHandler)
		chat.POST("", h.ChatSendHandler)
		chat.DELETE("", h.ChatClearHandler)

		protected.GET("/tags", h.ListTagsHandler)
		protected.GET("/costs", h.ListCostsHandler)
		protected.GET("/costs/summary", h.CostSummaryHandler)
		protected.GET("/jobs", h.ListJobsHandler)
	}
	return router
}
