// Package transcript obtains transcripts for social-media videos from
// third-party caption and dictation APIs.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/util"

	log "github.com/sirupsen/logrus"
)

const (
	// MinTranscriptLength is the length a transcript must exceed to count as extracted.
	MinTranscriptLength = 50
	minRawTranscript    = 10

	ErrMsgInvalidYouTubeURL = "Invalid YouTube URL - could not extract video ID"
	ErrMsgUnsupported       = "Unsupported platform - only YouTube, Instagram, X (Twitter), and Facebook are supported"
	ErrMsgExtractionFailed  = "External transcript API failed. Video may not have captions or may be restricted."

	MethodCaptionAPI   = "external-api"
	MethodDictationAPI = "dictation-api"
	MethodNone         = "none"
)

var (
	ErrNotFound     = errors.New("content not found or no captions available")
	ErrServer       = errors.New("external API server error")
	ErrTooShort     = errors.New("transcript too short - may be invalid")
	ErrNoTracks     = errors.New("no transcript tracks found in completed job")
	ErrPollExceeded = errors.New("transcription job did not complete within the polling budget")
)

// Result is the outcome of one extraction attempt.
type Result struct {
	Success    bool
	Transcript string
	Title      string
	Method     string
	Platform   models.Platform
	Error      string
}

// Config configures the external transcript APIs.
type Config struct {
	CaptionAPIURL      string
	DictationAPIURL    string
	DictationAPIKey    string
	DictationAuthToken string
	DictationUserID    string
	CountryCode        string
	PollInterval       time.Duration
	MaxPollAttempts    int
	RequestTimeout     time.Duration
}

// Extractor is the transcript collaborator used by content ingestion.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) Result
}

// HTTPExtractor talks to the caption API for YouTube and to the dictation job
// API for every other platform.
type HTTPExtractor struct {
	cfg    Config
	client *http.Client
}

// NewHTTPExtractor builds an extractor. A nil client gets one with the
// configured request timeout.
func NewHTTPExtractor(cfg Config, client *http.Client) *HTTPExtractor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = 60
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "US"
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &HTTPExtractor{cfg: cfg, client: client}
}

// Extract never returns an error; failures are reported in Result.Error.
func (e *HTTPExtractor) Extract(ctx context.Context, rawURL string) Result {
	platform := DetectPlatform(rawURL)
	logger := log.WithFields(log.Fields{"platform": platform, "url": rawURL})

	switch platform {
	case models.PlatformYouTube:
		if YouTubeID(rawURL) == "" {
			return Result{Method: MethodNone, Platform: platform, Error: ErrMsgInvalidYouTubeURL}
		}
	case models.PlatformInstagram, models.PlatformX, models.PlatformFacebook:
	default:
		return Result{Method: MethodNone, Platform: models.PlatformUnknown, Error: ErrMsgUnsupported}
	}

	var (
		res Result
		err error
	)
	if platform == models.PlatformYouTube {
		res, err = e.fetchCaptions(ctx, rawURL)
	} else {
		res, err = e.runDictationJob(ctx, rawURL, platform)
	}
	if err != nil {
		logger.Warnf("External transcript API failed: %v", err)
		return Result{Method: MethodNone, Platform: platform, Error: ErrMsgExtractionFailed}
	}

	cleaned, cleanErr := util.CleanText([]byte(res.Transcript), rawURL)
	if cleanErr != nil {
		logger.Warnf("Transcript cleanup failed: %v", cleanErr)
		return Result{Method: MethodNone, Platform: platform, Error: ErrMsgExtractionFailed}
	}
	res.Transcript = cleaned
	res.Platform = platform

	if len([]rune(res.Transcript)) <= MinTranscriptLength {
		logger.Warnf("Transcript too short (%d chars)", len(res.Transcript))
		return Result{Method: MethodNone, Platform: platform, Error: ErrMsgExtractionFailed}
	}

	res.Success = true
	logger.Infof("Extracted transcript via %s: %d chars", res.Method, len(res.Transcript))
	return res
}

func (e *HTTPExtractor) postJSON(ctx context.Context, endpoint string, payload any, headers map[string]string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request for '%s': %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("call '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		hint, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("call '%s': status code %d %s - Body Hint: %s", endpoint, resp.StatusCode, http.StatusText(resp.StatusCode), string(hint))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from '%s': %w", endpoint, err)
	}
	return nil
}
