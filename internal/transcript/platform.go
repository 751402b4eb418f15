package transcript

import (
	"net/url"
	"regexp"
	"strings"

	"clipnote/internal/models"
)

var platformHosts = []struct {
	platform models.Platform
	domains  []string
}{
	{models.PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{models.PlatformInstagram, []string{"instagram.com"}},
	{models.PlatformX, []string{"x.com", "twitter.com"}},
	{models.PlatformFacebook, []string{"facebook.com", "fb.watch"}},
}

var (
	youtubeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/watch\?v=([^&\n?#]+)`),
		regexp.MustCompile(`youtu\.be/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/shorts/([^&\n?#]+)`),
	}
	instagramIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`instagram\.com/(?:reel|p|tv)/([^/?#]+)`),
	}
	xIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:x|twitter)\.com/(?:\w+|i)/status/(\d+)`),
	}
	facebookIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`facebook\.com/watch/?\?v=(\d+)`),
		regexp.MustCompile(`facebook\.com/.*/videos/(\d+)`),
		regexp.MustCompile(`facebook\.com/video\.php\?v=(\d+)`),
		regexp.MustCompile(`facebook\.com/share/v/([^/?#]+)`),
		regexp.MustCompile(`facebook\.com/reel/(\d+)`),
	}
)

// DetectPlatform maps a URL to its platform by host name. URLs without a
// parseable host fall back to a substring check.
func DetectPlatform(rawURL string) models.Platform {
	host := ""
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		host = strings.ToLower(u.Hostname())
	}

	for _, ph := range platformHosts {
		for _, d := range ph.domains {
			if host != "" {
				if host == d || strings.HasSuffix(host, "."+d) {
					return ph.platform
				}
				continue
			}
			if strings.Contains(strings.ToLower(rawURL), d) {
				return ph.platform
			}
		}
	}
	return models.PlatformUnknown
}

// ContentID extracts the platform-specific identifier of the post or video,
// or "" when the URL shape is not recognised.
func ContentID(platform models.Platform, rawURL string) string {
	switch platform {
	case models.PlatformYouTube:
		return firstSubmatch(youtubeIDPatterns, rawURL)
	case models.PlatformInstagram:
		return firstSubmatch(instagramIDPatterns, rawURL)
	case models.PlatformX:
		return firstSubmatch(xIDPatterns, rawURL)
	case models.PlatformFacebook:
		return firstSubmatch(facebookIDPatterns, rawURL)
	default:
		return ""
	}
}

// YouTubeID is ContentID for YouTube URLs.
func YouTubeID(rawURL string) string {
	return firstSubmatch(youtubeIDPatterns, rawURL)
}

func firstSubmatch(patterns []*regexp.Regexp, s string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// DefaultTitle is the placeholder title used until a real one is known.
func DefaultTitle(p models.Platform) string {
	switch p {
	case models.PlatformInstagram:
		return "Instagram Reel"
	case models.PlatformUnknown:
		return "Content"
	default:
		return p.DisplayName() + " Video"
	}
}
