package apihandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clipnote/internal/app"
	"clipnote/internal/config"
	"clipnote/internal/models"
	"clipnote/internal/services"
	"clipnote/internal/transcript"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const youtubeURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type stubExtractor struct {
	result transcript.Result
}

func (s *stubExtractor) Extract(context.Context, string) transcript.Result { return s.result }

type stubTitles struct{}

func (stubTitles) FetchYouTubeTitle(context.Context, string) (string, error) {
	return "Learning Go Concurrency", nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	app    *app.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLite.Path = ":memory:"
	cfg.Worker.Concurrency = 1
	cfg.Worker.Queues = map[string]int{"default": 1}
	cfg.Auth.JWTSecret = "0123456789abcdef"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Transcript.PollInterval = time.Millisecond
	cfg.Transcript.MaxPollAttempts = 1
	cfg.Transcript.RequestTimeout = time.Second

	a, err := app.NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	a.ContentService = services.NewContentService(services.ContentServiceDeps{
		VideoStore: a.Store,
		Extractor: &stubExtractor{result: transcript.Result{
			Success:    true,
			Transcript: "Goroutines and channels make concurrent programming in Go approachable. Channels pass values between goroutines safely.",
			Method:     "captions",
			Platform:   models.PlatformYouTube,
		}},
		Titles:    stubTitles{},
		Summaries: a.SummaryService,
		Analyzer:  a.Analyzer,
	})

	return &testServer{t: t, router: NewRouter(NewAPIHandler(a), a.Tokens, RouterOptions{}), app: a}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", CredentialsRequest{Username: username, Password: "secret1"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &out)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out errorResponse
	decode(t, rec, &out)
	return out.Error.Code
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	rec := s.do(http.MethodPost, "/api/auth/register", "", CredentialsRequest{Username: "alice", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", "", CredentialsRequest{Username: "bob", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", CredentialsRequest{Username: "alice", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/api/auth/login", "", CredentialsRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/videos", "/api/notes", "/api/chat/global", "/api/tags", "/api/costs", "/api/jobs"} {
		t.Run(path, func(t *testing.T) {
			rec := s.do(http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			rec = s.do(http.MethodGet, path, "not-a-jwt", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestVideoLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	rec := s.do(http.MethodPost, "/api/videos/process", token, urlRequest{URL: youtubeURL})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var processed struct {
		models.Video
		Message string `json:"message"`
	}
	decode(t, rec, &processed)
	assert.Equal(t, "youtube content processed successfully", processed.Message)
	assert.Equal(t, "Learning Go Concurrency", processed.Title)
	assert.Equal(t, models.VideoStatusCompleted, processed.Status)
	assert.NotEmpty(t, processed.Summary)
	assert.NotEmpty(t, processed.Tags)
	id := processed.ID

	rec = s.do(http.MethodGet, "/api/videos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Learning Go Concurrency")

	videoPath := fmt.Sprintf("/api/videos/%d", id)
	rec = s.do(http.MethodPut, videoPath+"/tags", token, tagsRequest{Tags: []string{" Go ", "go", "concurrency"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, videoPath+"/title", token, titleRequest{Title: "Go Channels"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, videoPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Video
	decode(t, rec, &got)
	assert.Equal(t, "Go Channels", got.Title)
	assert.Equal(t, []string{"Go", "concurrency"}, got.Tags)

	other := s.register("bob")
	rec = s.do(http.MethodGet, videoPath, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, videoPath+"/regenerate-tags", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"videoId"`)

	rec = s.do(http.MethodPost, "/api/videos/regenerate-all-tags", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Processed 1 videos")

	rec = s.do(http.MethodDelete, videoPath, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, videoPath, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessVideoRejections(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	tests := []struct {
		name string
		body any
	}{
		{"blank url", urlRequest{URL: " "}},
		{"unsupported platform", urlRequest{URL: "https://example.com/clip"}},
		{"invalid youtube url", urlRequest{URL: "https://www.youtube.com/about"}},
		{"malformed body", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/videos/process", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "bad_request", errorCode(t, rec))
		})
	}
}

func TestInvalidIDAndPage(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/videos/abc", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/videos/0", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/videos?limit=-1", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/notes?offset=x", token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/videos?limit=9999", token, nil).Code)
}

func TestNotesAndAskAI(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	rec := s.do(http.MethodPost, "/api/notes", token, noteRequest{Title: "Kafka", Content: "Partitions and consumer groups", Tags: []string{"Streaming"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var note models.Note
	decode(t, rec, &note)
	assert.Equal(t, []string{"Streaming"}, note.Tags)

	notePath := fmt.Sprintf("/api/notes/%d", note.ID)
	rec = s.do(http.MethodPut, notePath, token, noteRequest{Title: "Kafka basics", Content: "Partitions"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Kafka basics")

	rec = s.do(http.MethodPost, "/api/notes", token, noteRequest{Title: "", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No LLM is configured.
	rec = s.do(http.MethodPost, "/api/notes/ask-ai", token, askRequest{Question: "What is Kafka?"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "service_unavailable", errorCode(t, rec))

	rec = s.do(http.MethodGet, "/api/tags", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "streaming")

	rec = s.do(http.MethodDelete, notePath, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, notePath, token, nil).Code)
}

func TestChatFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	rec := s.do(http.MethodPost, "/api/videos/process", token, urlRequest{URL: youtubeURL})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/chat/global", token, chatRequest{Message: "goroutines channels"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reply services.ChatReply
	decode(t, rec, &reply)
	require.NotEmpty(t, reply.MatchedVideos)
	assert.Equal(t, "Learning Go Concurrency", reply.MatchedVideos[0].Title)
	assert.NotEmpty(t, reply.Response)

	rec = s.do(http.MethodPost, "/api/chat/global", token, chatRequest{Message: "quantum chromodynamics"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &reply)
	assert.Equal(t, services.NoResultsReply, reply.Response)

	rec = s.do(http.MethodGet, "/api/chat/global", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []chatEntry
	decode(t, rec, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "goroutines channels", history[0].Message)

	rec = s.do(http.MethodDelete, "/api/chat/global", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":2`)

	rec = s.do(http.MethodPost, "/api/chat/global", token, chatRequest{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCostsAndJobs(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	rec := s.do(http.MethodGet, "/api/costs/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var totals services.UsageTotals
	decode(t, rec, &totals)
	assert.Zero(t, totals.TotalCost)
	assert.Empty(t, totals.ByModel)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/costs", token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/jobs", token, nil).Code)
}

func TestPublicMessage(t *testing.T) {
	err := fmt.Errorf("title is required: %w", models.ErrValidation)
	assert.Equal(t, "Title is required", publicMessage(err, models.ErrValidation))
	assert.Equal(t, "Validation error", publicMessage(models.ErrValidation, models.ErrValidation))
}
