package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// FromPDF extracts the text of every page in the document at path.
func FromPDF(path string) (Article, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Article{}, fmt.Errorf("could not open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug().Err(err).Int("page", i).Msg("pdf page unreadable, skipped")
			continue
		}
		if strings.TrimSpace(content) != "" {
			pages = append(pages, content)
		}
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if len(text) < minURLChars {
		return Article{}, fmt.Errorf("could not extract usable text from the PDF")
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	language := detectLanguage(text, "", "")
	log.Info().Int("pages", len(pages)).Int("chars", len(text)).Str("language", language).
		Msg("pdf extraction done")
	return Article{Text: text, Title: title, Language: language}, nil
}
