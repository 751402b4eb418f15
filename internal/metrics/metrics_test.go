package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/videos/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/videos/:id", "204"))
	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/videos/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/videos/:id", "204"))
	assert.Equal(t, 2.0, after-before)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")), 1.0)
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(SummaryPath.WithLabelValues(SummaryPathLocal))
	RecordSummaryPath(SummaryPathLocal)
	assert.Equal(t, 1.0, testutil.ToFloat64(SummaryPath.WithLabelValues(SummaryPathLocal))-before)

	before = testutil.ToFloat64(ChatResponses.WithLabelValues(ChatPathNone))
	RecordChatResponse(ChatPathNone)
	assert.Equal(t, 1.0, testutil.ToFloat64(ChatResponses.WithLabelValues(ChatPathNone))-before)

	RecordContentProcessed("youtube", "success")
	RecordJob("content:process", "completed")
}

func TestHandler_Exposition(t *testing.T) {
	RecordChatResponse(ChatPathLLM)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "clipnote_chat_responses_total"))
}
