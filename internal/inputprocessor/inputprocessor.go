// Package inputprocessor turns a command-line input (a file, stdin, a web
// page or literal text) into plain text for offline analysis.
package inputprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// Input sources.
const (
	SourceFile  = "file"
	SourceStdin = "stdin"
	SourceURL   = "url"
	SourceRaw   = "raw"
)

const maxBodyBytes = 10 << 20

var whitespaceRe = regexp.MustCompile(`\s+`)

// Result holds extracted content details
type Result struct {
	Body        string
	Title       string
	ContentType string
	Source      string
	FilePath    string
	URL         string
}

// Processor defines the interface for processing input strings
type Processor interface {
	Process(ctx context.Context, input string) (Result, error)
}

// New creates a processor reading "-" from stdin. A nil client gets a 30s timeout.
func New(stdin io.Reader, client *http.Client) Processor {
	if stdin == nil {
		stdin = os.Stdin
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &defaultProcessor{stdin: stdin, client: client}
}

type defaultProcessor struct {
	stdin  io.Reader
	client *http.Client
}

// Process checks, in order: stdin, an existing file, an http(s) URL. Anything
// else is taken as literal text.
func (p *defaultProcessor) Process(ctx context.Context, input string) (Result, error) {
	if input == "-" {
		data, err := io.ReadAll(io.LimitReader(p.stdin, maxBodyBytes))
		if err != nil {
			return Result{}, fmt.Errorf("read stdin: %w", err)
		}
		return textResult(data, SourceStdin), nil
	}

	fi, err := os.Stat(input)
	switch {
	case err == nil && fi.IsDir():
		return Result{}, fmt.Errorf("input %q is a directory, not a file", input)
	case err == nil:
		return p.readFile(input)
	case !errors.Is(err, os.ErrNotExist):
		return Result{}, fmt.Errorf("failed to stat input '%s': %w", input, err)
	}

	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return p.fetch(ctx, u.String())
	}

	log.Debugf("Input %q is not a file or URL, treating as raw text", input)
	return Result{Body: strings.TrimSpace(input), ContentType: "text/plain; charset=utf-8", Source: SourceRaw}, nil
}

func (p *defaultProcessor) readFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return Result{}, fmt.Errorf("permission denied reading file '%s': %w", path, err)
		}
		return Result{}, fmt.Errorf("failed to read file '%s': %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	ct := http.DetectContentType(data)
	res := textResult(data, SourceFile)
	if isHTML(ct) || strings.EqualFold(filepath.Ext(path), ".html") {
		if res, err = htmlResult(strings.NewReader(string(data)), SourceFile); err != nil {
			return Result{}, fmt.Errorf("parse html file '%s': %w", path, err)
		}
	}
	res.ContentType = ct
	res.FilePath = abs
	return res, nil
}

func (p *defaultProcessor) fetch(ctx context.Context, rawURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request for URL '%s': %w", rawURL, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch URL '%s': %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("failed to fetch URL '%s': status code %d %s", rawURL, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	ct := resp.Header.Get("Content-Type")
	var res Result
	if ct == "" || isHTML(ct) {
		res, err = htmlResult(body, SourceURL)
	} else {
		var data []byte
		data, err = io.ReadAll(body)
		res = textResult(data, SourceURL)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response body from URL '%s': %w", rawURL, err)
	}
	res.ContentType = ct
	res.URL = rawURL
	return res, nil
}

func textResult(data []byte, source string) Result {
	return Result{Body: strings.TrimSpace(string(data)), ContentType: "text/plain; charset=utf-8", Source: source}
}

// htmlResult keeps the visible text of a page and its <title>.
func htmlResult(r io.Reader, source string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, err
	}
	doc.Find("script, style, noscript, nav, footer").Remove()
	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	return Result{
		Body:   strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " ")),
		Title:  title,
		Source: source,
	}, nil
}

func isHTML(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "text/html")
}

var _ Processor = (*defaultProcessor)(nil)
