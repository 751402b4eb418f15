package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

var (
	youtubeSuffixRe = regexp.MustCompile(`\s*-\s*YouTube\s*$`)

	ErrTitleNotFound = errors.New("could not extract title from YouTube page")
)

// TitleFetcher reads video titles from the public YouTube watch page.
type TitleFetcher struct {
	BaseURL string
	client  *http.Client
}

// NewTitleFetcher returns a fetcher against https://www.youtube.com. A nil
// client gets a 10 second timeout.
func NewTitleFetcher(client *http.Client) *TitleFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TitleFetcher{BaseURL: "https://www.youtube.com", client: client}
}

// FetchYouTubeTitle returns the title of the video with the given ID.
func (f *TitleFetcher) FetchYouTubeTitle(ctx context.Context, videoID string) (string, error) {
	if videoID == "" {
		return "", ErrTitleNotFound
	}
	endpoint := strings.TrimRight(f.BaseURL, "/") + "/watch?v=" + videoID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request for '%s': %w", endpoint, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch '%s': status code %d", endpoint, resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse watch page: %w", err)
	}
	return titleFromDocument(goquery.NewDocumentFromNode(root))
}

// titleFromDocument prefers the <title> element and falls back to the
// JSON-LD "name" property.
func titleFromDocument(doc *goquery.Document) (string, error) {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		title = strings.TrimSpace(youtubeSuffixRe.ReplaceAllString(title, ""))
		if title != "" {
			return title, nil
		}
	}

	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		found = strings.TrimSpace(data.Name)
		return found == ""
	})
	if found != "" {
		return found, nil
	}
	return "", ErrTitleNotFound
}
