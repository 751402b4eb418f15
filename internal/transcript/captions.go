package transcript

import (
	"context"
	"strings"

	"clipnote/internal/models"
)

type captionRequest struct {
	VideoURL string `json:"videoUrl"`
	LangCode string `json:"langCode"`
}

type captionItem struct {
	Start string `json:"start"`
	Dur   string `json:"dur"`
	Text  string `json:"text"`
}

type captionResponse struct {
	Title    string        `json:"title"`
	Captions []captionItem `json:"captions"`
}

func (e *HTTPExtractor) fetchCaptions(ctx context.Context, rawURL string) (Result, error) {
	var resp captionResponse
	req := captionRequest{VideoURL: rawURL, LangCode: "en"}
	if err := e.postJSON(ctx, e.cfg.CaptionAPIURL, req, nil, &resp); err != nil {
		return Result{}, err
	}

	text := captionsToText(resp.Captions)
	if len(text) < minRawTranscript {
		return Result{}, ErrTooShort
	}

	return Result{
		Transcript: text,
		Title:      resp.Title,
		Method:     MethodCaptionAPI,
		Platform:   models.PlatformYouTube,
	}, nil
}

// captionsToText joins caption lines, skipping the "No text" placeholders the
// caption API emits for silent segments.
func captionsToText(captions []captionItem) string {
	parts := make([]string, 0, len(captions))
	for _, c := range captions {
		text := strings.TrimSpace(c.Text)
		if text == "" || text == "No text" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
