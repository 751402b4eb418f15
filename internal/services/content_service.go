package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clipnote/internal/costtracker"
	"clipnote/internal/intelligence"
	"clipnote/internal/metrics"
	"clipnote/internal/models"
	"clipnote/internal/store"
	"clipnote/internal/transcript"

	log "github.com/sirupsen/logrus"
)

// noTitleSentinel is what the caption API reports when it has no title.
const noTitleSentinel = "No title found"

// TitleFetcher looks up a YouTube title by video ID.
type TitleFetcher interface {
	FetchYouTubeTitle(ctx context.Context, videoID string) (string, error)
}

// ContentServiceDeps lists the collaborators of ContentService. JobClient is
// only used when Async is set.
type ContentServiceDeps struct {
	VideoStore store.VideoStore
	JobClient  store.JobClient
	Extractor  transcript.Extractor
	Titles     TitleFetcher
	Summaries  *SummaryService
	Analyzer   *intelligence.Analyzer
	Async      bool
}

// ContentService captures URLs and manages the resulting videos.
type ContentService struct {
	videos    store.VideoStore
	jobs      store.JobClient
	extractor transcript.Extractor
	titles    TitleFetcher
	summaries *SummaryService
	analyzer  *intelligence.Analyzer
	async     bool
}

func NewContentService(deps ContentServiceDeps) *ContentService {
	analyzer := deps.Analyzer
	if analyzer == nil {
		analyzer = intelligence.MustDefaultAnalyzer()
	}
	summaries := deps.Summaries
	if summaries == nil {
		summaries = NewSummaryService(nil, analyzer, "")
	}
	return &ContentService{
		videos:    deps.VideoStore,
		jobs:      deps.JobClient,
		extractor: deps.Extractor,
		titles:    deps.Titles,
		summaries: summaries,
		analyzer:  analyzer,
		async:     deps.Async && deps.JobClient != nil,
	}
}

// TagResult is the per-video outcome of a bulk tag regeneration.
type TagResult struct {
	ID    int64    `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
	Error string   `json:"error,omitempty"`
}

// RegenerateAllResult summarizes RegenerateAllTags.
type RegenerateAllResult struct {
	Processed int         `json:"processed"`
	Updated   int         `json:"updated"`
	Failed    int         `json:"failed"`
	Results   []TagResult `json:"results"`
}

// TitleResult is the per-video outcome of FixTitles.
type TitleResult struct {
	ID       int64  `json:"id"`
	OldTitle string `json:"oldTitle"`
	NewTitle string `json:"newTitle,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FixTitlesResult summarizes FixTitles.
type FixTitlesResult struct {
	Processed int           `json:"processed"`
	Fixed     int           `json:"fixed"`
	Failed    int           `json:"failed"`
	Results   []TitleResult `json:"results"`
}

// Preview is an extraction run that is not persisted.
type Preview struct {
	ContentID        string          `json:"contentId"`
	Platform         models.Platform `json:"platform"`
	Title            string          `json:"title"`
	Method           string          `json:"method"`
	TranscriptLength int             `json:"transcriptLength"`
	TranscriptHead   string          `json:"preview"`
	Summary          string          `json:"summary,omitempty"`
	Tags             []string        `json:"autoTags,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// ProcessURL captures url for the user. An existing capture of the same URL
// or content ID is refreshed in place. In async mode the video is stored as
// pending and the pipeline runs in the worker.
func (s *ContentService) ProcessURL(ctx context.Context, userID int64, url string) (*models.Video, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required: %w", models.ErrValidation)
	}
	platform := transcript.DetectPlatform(url)
	if platform == models.PlatformUnknown {
		return nil, models.ErrUnsupportedPlatform
	}
	contentID := transcript.ContentID(platform, url)
	if contentID == "" {
		return nil, fmt.Errorf("invalid %s URL: %w", platform.DisplayName(), models.ErrValidation)
	}

	video, err := s.videos.FindVideo(ctx, userID, url, contentID)
	switch {
	case err == nil:
		log.Infof("Refreshing existing %s content %d for user %d", platform, video.ID, userID)
	case errors.Is(err, store.ErrNotFound):
		video = &models.Video{UserID: userID, Title: transcript.DefaultTitle(platform)}
	default:
		return nil, fmt.Errorf("look up existing video: %w", err)
	}
	video.URL = url
	video.ContentID = contentID
	video.Platform = platform

	if s.async {
		return s.enqueue(ctx, video)
	}

	if video.ID != 0 {
		ctx = costtracker.WithVideo(ctx, video.ID)
	}
	s.runPipeline(costtracker.WithUser(ctx, userID), video)
	if err := s.save(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *ContentService) enqueue(ctx context.Context, video *models.Video) (*models.Video, error) {
	video.Status = models.VideoStatusPending
	if err := s.save(ctx, video); err != nil {
		return nil, err
	}
	if err := s.jobs.EnqueueProcessContent(ctx, video.UserID, video.ID); err != nil {
		return nil, fmt.Errorf("enqueue processing for video %d: %w", video.ID, err)
	}
	log.Infof("Queued %s content %d for processing", video.Platform, video.ID)
	return video, nil
}

func (s *ContentService) save(ctx context.Context, video *models.Video) error {
	if video.ID == 0 {
		if err := s.videos.CreateVideo(ctx, video); err != nil {
			return fmt.Errorf("create video: %w", err)
		}
		return nil
	}
	if err := s.videos.UpdateVideo(ctx, video); err != nil {
		return fmt.Errorf("update video %d: %w", video.ID, err)
	}
	return nil
}

// ProcessVideo runs the pipeline for a stored video. The worker calls it for
// videos captured in async mode.
func (s *ContentService) ProcessVideo(ctx context.Context, userID, videoID int64) (*models.Video, error) {
	video, err := s.videos.GetVideo(ctx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("get video %d: %w", videoID, err)
	}
	s.runPipeline(costtracker.WithVideo(costtracker.WithUser(ctx, userID), videoID), video)
	if err := s.save(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// runPipeline fills transcript, summary, tags, title and status in place.
func (s *ContentService) runPipeline(ctx context.Context, video *models.Video) {
	result := s.extractor.Extract(ctx, video.URL)
	log.WithFields(log.Fields{
		"platform": video.Platform,
		"content":  video.ContentID,
		"method":   result.Method,
		"success":  result.Success,
	}).Info("Transcript extraction finished")

	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "Unknown error"
		}
		video.Transcript = fmt.Sprintf("No transcript available for this %s content (%s). %s", video.Platform, video.ContentID, reason)
		video.Summary = fmt.Sprintf("Unable to generate summary - no content available. This %s content may not have captions enabled or may be restricted.", video.Platform)
		video.Tags = []string{}
		video.Status = models.VideoStatusFailed
		metrics.RecordContentProcessed(string(video.Platform), "no_transcript")
		return
	}

	video.Transcript = result.Transcript
	video.Summary = s.summaries.GenerateSummary(ctx, result.Transcript)
	video.Tags = s.analyzer.GenerateTags(video.Transcript, video.Summary)
	video.Title = s.resolveTitle(ctx, video, result.Title)
	video.Status = models.VideoStatusCompleted
	metrics.RecordContentProcessed(string(video.Platform), "success")
	log.Infof("Content processed: %s (%d chars)", video.Title, len(video.Transcript))
}

func (s *ContentService) resolveTitle(ctx context.Context, video *models.Video, extracted string) string {
	if t := strings.TrimSpace(extracted); t != "" && t != noTitleSentinel {
		return t
	}
	if video.Platform == models.PlatformYouTube && s.titles != nil {
		title, err := s.titles.FetchYouTubeTitle(ctx, video.ContentID)
		if err == nil && strings.TrimSpace(title) != "" {
			return strings.TrimSpace(title)
		}
		log.Debugf("YouTube title lookup for %s failed: %v", video.ContentID, err)
	}
	if video.Title != "" {
		return video.Title
	}
	return transcript.DefaultTitle(video.Platform)
}

// PreviewURL extracts and analyzes url without storing anything.
func (s *ContentService) PreviewURL(ctx context.Context, url string) (*Preview, error) {
	platform := transcript.DetectPlatform(url)
	if platform == models.PlatformUnknown {
		return nil, models.ErrUnsupportedPlatform
	}
	contentID := transcript.ContentID(platform, url)
	if contentID == "" {
		return nil, fmt.Errorf("invalid %s URL: %w", platform.DisplayName(), models.ErrValidation)
	}

	result := s.extractor.Extract(ctx, url)
	p := &Preview{ContentID: contentID, Platform: platform, Title: result.Title, Method: result.Method}
	if !result.Success {
		p.Error = result.Error
		return p, nil
	}
	runes := []rune(result.Transcript)
	p.TranscriptLength = len(runes)
	p.TranscriptHead = string(runes[:min(500, len(runes))])
	p.Summary = s.summaries.GenerateSummary(ctx, result.Transcript)
	p.Tags = s.analyzer.GenerateTags(result.Transcript, p.Summary)
	return p, nil
}

func (s *ContentService) ListVideos(ctx context.Context, userID int64, limit, offset int) ([]*models.Video, error) {
	videos, err := s.videos.ListVideos(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *ContentService) GetVideo(ctx context.Context, userID, id int64) (*models.Video, error) {
	video, err := s.videos.GetVideo(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("GetVideo: failed to get video with ID %d: %w", id, err)
	}
	return video, nil
}

func (s *ContentService) DeleteVideo(ctx context.Context, userID, id int64) error {
	if err := s.videos.DeleteVideo(ctx, userID, id); err != nil {
		return fmt.Errorf("DeleteVideo: %w", err)
	}
	return nil
}

// UpdateTags replaces the video's tags after trimming and dropping duplicates.
func (s *ContentService) UpdateTags(ctx context.Context, userID, id int64, tags []string) ([]string, error) {
	clean := NormalizeTags(tags)
	if err := s.videos.UpdateVideoTags(ctx, userID, id, clean); err != nil {
		return nil, fmt.Errorf("update tags for video %d: %w", id, err)
	}
	return clean, nil
}

// UpdateTitle sets the title. An empty title is looked up on YouTube.
func (s *ContentService) UpdateTitle(ctx context.Context, userID, id int64, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		video, err := s.videos.GetVideo(ctx, userID, id)
		if err != nil {
			return "", fmt.Errorf("get video %d: %w", id, err)
		}
		if ytID := transcript.YouTubeID(video.URL); ytID != "" && s.titles != nil {
			fetched, err := s.titles.FetchYouTubeTitle(ctx, ytID)
			if err != nil {
				log.Infof("Failed to fetch title for video %d: %v", id, err)
			}
			title = strings.TrimSpace(fetched)
		}
	}
	if title == "" {
		return "", fmt.Errorf("no title provided and could not fetch from YouTube: %w", models.ErrValidation)
	}
	if err := s.videos.UpdateVideoTitle(ctx, userID, id, title); err != nil {
		return "", fmt.Errorf("update title for video %d: %w", id, err)
	}
	return title, nil
}

// RegenerateTags recomputes a video's tags from its transcript and summary.
func (s *ContentService) RegenerateTags(ctx context.Context, userID, id int64) ([]string, error) {
	video, err := s.videos.GetVideo(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get video %d: %w", id, err)
	}
	tags := s.analyzer.GenerateTags(video.Transcript, video.Summary)
	if err := s.videos.UpdateVideoTags(ctx, userID, id, tags); err != nil {
		return nil, fmt.Errorf("update tags for video %d: %w", id, err)
	}
	return tags, nil
}

// RegenerateAllTags recomputes tags for every video of the user. progress,
// when set, is called after each video.
func (s *ContentService) RegenerateAllTags(ctx context.Context, userID int64, progress func(done, total int)) (*RegenerateAllResult, error) {
	videos, err := s.videos.ListVideos(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	out := &RegenerateAllResult{Processed: len(videos), Results: make([]TagResult, 0, len(videos))}
	for i, v := range videos {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		tags := s.analyzer.GenerateTags(v.Transcript, v.Summary)
		r := TagResult{ID: v.ID, Title: v.Title}
		if err := s.videos.UpdateVideoTags(ctx, userID, v.ID, tags); err != nil {
			log.Warnf("Failed to regenerate tags for video %d: %v", v.ID, err)
			r.Error = err.Error()
			out.Failed++
		} else {
			r.Tags = tags
			out.Updated++
		}
		out.Results = append(out.Results, r)
		if progress != nil {
			progress(i+1, len(videos))
		}
	}
	return out, nil
}

// FixTitles refetches YouTube titles for videos still carrying a placeholder.
func (s *ContentService) FixTitles(ctx context.Context, userID int64) (*FixTitlesResult, error) {
	videos, err := s.videos.ListVideosWithPlaceholderTitles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list placeholder titles: %w", err)
	}

	out := &FixTitlesResult{Processed: len(videos), Results: []TitleResult{}}
	for _, v := range videos {
		ytID := transcript.YouTubeID(v.URL)
		if ytID == "" || s.titles == nil {
			continue
		}
		r := TitleResult{ID: v.ID, OldTitle: v.Title}
		title, err := s.titles.FetchYouTubeTitle(ctx, ytID)
		if err == nil {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			err = s.videos.UpdateVideoTitle(ctx, userID, v.ID, title)
		}
		if err != nil {
			log.Infof("Failed to fix title for video %d: %v", v.ID, err)
			r.Error = err.Error()
			out.Failed++
		} else {
			r.NewTitle = title
			out.Fixed++
		}
		out.Results = append(out.Results, r)
	}
	return out, nil
}

// NormalizeTags trims tags and drops empty and repeated ones, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
