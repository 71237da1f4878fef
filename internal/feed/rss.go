package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eduncan911/podcast"

	"news-podcaster/internal/config"
	"news-podcaster/internal/models"
)

// GenerateRSS renders an Apple Podcasts compatible feed for the completed
// episodes. Episodes whose audio file is missing or empty on disk are left
// out rather than published with a broken enclosure.
func GenerateRSS(cfg config.Config, episodes []models.Episode) (string, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	now := time.Now()

	p := podcast.New(cfg.PodcastTitle, baseURL, cfg.PodcastDescription, &now, &now)
	p.Language = cfg.PodcastLanguage
	p.IAuthor = cfg.PodcastAuthor
	p.ISummary = &podcast.ISummary{Text: cfg.PodcastDescription}
	p.IExplicit = "no"
	p.AddCategory("News", nil)
	if cfg.PodcastOwnerEmail != "" {
		p.IOwner = &podcast.Author{Name: cfg.PodcastAuthor, Email: cfg.PodcastOwnerEmail}
	}
	if cfg.PodcastImageURL != "" {
		p.AddImage(cfg.PodcastImageURL)
	}

	for i := range episodes {
		ep := &episodes[i]
		if ep.AudioFilename == nil {
			continue
		}
		size := audioFileSize(cfg.AudioDir, *ep.AudioFilename)
		if size == 0 {
			continue
		}

		item := podcast.Item{
			Title:       ep.Title,
			Description: itemDescription(ep),
			GUID:        ep.ID.String(),
		}
		pubDate := ep.CreatedAt
		item.PubDate = &pubDate
		if ep.DurationSeconds != nil {
			item.IDuration = fmt.Sprintf("%d:%02d", *ep.DurationSeconds/60, *ep.DurationSeconds%60)
		}
		if ep.ImageURL != nil && *ep.ImageURL != "" {
			item.AddImage(*ep.ImageURL)
		}
		item.AddEnclosure(baseURL+"/audio/"+*ep.AudioFilename, podcast.MP3, size)
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}

func itemDescription(ep *models.Episode) string {
	var parts []string
	if ep.Source != nil && *ep.Source != "" {
		parts = append(parts, "Source: "+*ep.Source)
	}
	if ep.SourceURL != nil && *ep.SourceURL != "" {
		parts = append(parts, "Original article: "+*ep.SourceURL)
	}
	if ep.Script != nil && *ep.Script != "" {
		parts = append(parts, scriptPreview(*ep.Script))
	}
	if len(parts) == 0 {
		return "News podcast episode"
	}
	return strings.Join(parts, " | ")
}

// scriptPreview takes roughly the first 200 bytes of the script, cut on a
// word boundary, never mid-rune.
func scriptPreview(script string) string {
	if len(script) <= 200 {
		return script
	}
	cut := 200
	for cut > 0 && !utf8.RuneStart(script[cut]) {
		cut--
	}
	preview := script[:cut]
	if i := strings.LastIndexByte(preview, ' '); i > 0 {
		preview = preview[:i]
	}
	return preview + "..."
}

func audioFileSize(audioDir, filename string) int64 {
	info, err := os.Stat(filepath.Join(audioDir, filename))
	if err != nil {
		return 0
	}
	return info.Size()
}
