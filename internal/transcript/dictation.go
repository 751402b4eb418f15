package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clipnote/internal/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	addJobPath    = "/queue/addTranscriptionJob"
	jobStatusPath = "/job/getJobDataById"
)

type processingOptions struct {
	IncludeVideoEditing     bool `json:"includeVideoEditing"`
	IncludeTranslation      bool `json:"includeTranslation"`
	IncludeSummary          bool `json:"includeSummary"`
	IncludeDiagram          bool `json:"includeDiagram"`
	IncludeOriginalLanguage bool `json:"includeOriginalLanguage"`
}

type addJobRequest struct {
	UserID            string            `json:"userId"`
	FileType          string            `json:"fileType"`
	Link              string            `json:"youtubeLink"`
	Duration          int               `json:"duration"`
	Cost              int               `json:"cost"`
	TargetLanguage    string            `json:"targetLanguage"`
	OriginalLanguage  string            `json:"originalLanguage"`
	CountryCode       string            `json:"countryCode"`
	ProcessingOptions processingOptions `json:"processingOptions"`
	IsPremiumUser     bool              `json:"isPremiumUser"`
}

type jobStatusRequest struct {
	JobID string `json:"jobId"`
}

type jobTrack struct {
	Text string `json:"text"`
}

type jobData struct {
	ID       string `json:"_id"`
	FileName string `json:"fileName"`
	Progress *struct {
		Percentage int    `json:"percentage"`
		Message    string `json:"message"`
	} `json:"progress"`
	Tracks []jobTrack `json:"tracks"`
}

func (e *HTTPExtractor) dictationHeaders() map[string]string {
	h := map[string]string{}
	if e.cfg.DictationAPIKey != "" {
		h["x-api-key"] = e.cfg.DictationAPIKey
	}
	if e.cfg.DictationAuthToken != "" {
		h["Authorization"] = "Bearer " + e.cfg.DictationAuthToken
	}
	return h
}

// runDictationJob submits the URL as a transcription job and polls it until
// the job reports 100% progress or the attempt budget runs out.
func (e *HTTPExtractor) runDictationJob(ctx context.Context, rawURL string, platform models.Platform) (Result, error) {
	base := strings.TrimRight(e.cfg.DictationAPIURL, "/")
	headers := e.dictationHeaders()
	logger := log.WithField("platform", platform)

	var created jobData
	err := e.postJSON(ctx, base+addJobPath, addJobRequest{
		UserID:           e.cfg.DictationUserID,
		FileType:         "youtubeLink",
		Link:             rawURL,
		Duration:         60,
		Cost:             1,
		TargetLanguage:   "en",
		OriginalLanguage: "en",
		CountryCode:      e.cfg.CountryCode,
		IsPremiumUser:    true,
	}, headers, &created)
	if err != nil {
		return Result{}, fmt.Errorf("add transcription job: %w", err)
	}
	if created.ID == "" {
		return Result{}, errors.New("failed to create transcription job")
	}
	logger.Infof("Transcription job created with ID: %s", created.ID)

	limiter := rate.NewLimiter(rate.Every(e.cfg.PollInterval), 1)
	for attempt := 1; attempt <= e.cfg.MaxPollAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("polling job %s: %w", created.ID, err)
		}

		var job jobData
		if err := e.postJSON(ctx, base+jobStatusPath, jobStatusRequest{JobID: created.ID}, headers, &job); err != nil {
			logger.Debugf("Polling error (attempt %d/%d): %v", attempt, e.cfg.MaxPollAttempts, err)
			continue
		}
		if job.Progress == nil {
			continue
		}
		logger.Debugf("Job %s progress: %d%% - %s", created.ID, job.Progress.Percentage, job.Progress.Message)
		if job.Progress.Percentage < 100 {
			continue
		}

		if len(job.Tracks) == 0 {
			return Result{}, ErrNoTracks
		}
		text := job.Tracks[0].Text
		if len(text) < minRawTranscript {
			return Result{}, ErrTooShort
		}
		title := job.FileName
		if title == "" {
			title = DefaultTitle(platform)
		}
		return Result{Transcript: text, Title: title, Method: MethodDictationAPI, Platform: platform}, nil
	}

	return Result{}, ErrPollExceeded
}
