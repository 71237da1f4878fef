// Package extract turns a URL, raw text or a PDF into an Article record,
// including language detection. It raises recoverable errors when no usable
// text can be obtained; the caller surfaces those synchronously, before any
// episode exists.
package extract

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"news-podcaster/internal/models"
)

const (
	minTextChars = 50
	minURLChars  = 100

	// Browser-like UA for sites with bot detection.
	browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

var fetchTimeout = 15 * time.Second

// FromText wraps raw text in the standard Article format.
func FromText(text, title, source string) (Article, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextChars {
		return Article{}, fmt.Errorf("text is too short to make a podcast script from")
	}
	language := detectLanguage(trimmed, "", source)
	log.Info().Str("title", title).Str("source", source).Str("language", language).
		Int("chars", len(trimmed)).Msg("text extraction")
	return Article{Text: trimmed, Title: title, Source: source, Language: language}, nil
}

// FromURL fetches and extracts the readable article text behind rawURL.
func FromURL(rawURL string) (Article, error) {
	log.Info().Str("url", rawURL).Msg("url extraction started")
	html, err := fetch(rawURL)
	if err != nil {
		return Article{}, fmt.Errorf("could not fetch page: %s", rawURL)
	}

	parsed, _ := url.Parse(rawURL)
	doc, err := readability.FromReader(strings.NewReader(html), parsed)
	text := ""
	if err == nil {
		text = strings.TrimSpace(doc.TextContent)
	}
	if len(text) < minURLChars {
		return Article{}, fmt.Errorf("no usable text found; the article may be paywalled, submit the text directly or upload a PDF")
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = htmlTitle(html)
	}
	source := strings.TrimSpace(doc.SiteName)
	if source == "" {
		source = domainToSource(rawURL)
	}
	date := ""
	if doc.PublishedTime != nil {
		date = doc.PublishedTime.Format("2006-01-02")
	}

	language := detectLanguage(text, rawURL, source)
	log.Info().Str("title", title).Str("source", source).Str("language", language).
		Int("chars", len(text)).Msg("url extraction done")
	return Article{
		Text:      text,
		Title:     title,
		Source:    source,
		SourceURL: rawURL,
		Date:      date,
		Language:  language,
		ImageURL:  doc.Image,
	}, nil
}

func fetch(rawURL string) (string, error) {
	client := &http.Client{Timeout: fetchTimeout}
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	return string(body), err
}

var titleTag = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
var titleSuffix = regexp.MustCompile(`\s*[|–—-]\s*[^|–—-]*$`)

// htmlTitle falls back to the <title> tag, stripping a trailing site suffix
// like " - NOS".
func htmlTitle(html string) string {
	m := titleTag.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(m[1])
	if stripped := titleSuffix.ReplaceAllString(title, ""); stripped != "" {
		title = stripped
	}
	return strings.TrimSpace(title)
}

// domainToSource derives a readable source name from the domain
// (nos.nl → NOS).
func domainToSource(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimPrefix(parsed.Hostname(), "www."), ".")
	if len(name) <= 4 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Article is the transient extraction result handed to the pipeline.
type Article = models.Article
