package extract

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dutchText = "De regering heeft vandaag nieuwe maatregelen aangekondigd om de stijgende " +
	"energieprijzen te compenseren. Huishoudens krijgen volgend jaar een hogere korting op de " +
	"energiebelasting, zo maakte het kabinet bekend na afloop van de ministerraad in Den Haag."

const englishText = "The government announced a comprehensive package of measures today designed " +
	"to offset rising energy prices for households across the country. Officials said the new " +
	"subsidies would take effect at the beginning of next year following parliamentary approval."

func TestFromTextRejectsShortInput(t *testing.T) {
	_, err := FromText("way too short", "Title", "Source")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestFromTextTrimsAndDetectsLanguage(t *testing.T) {
	article, err := FromText("  "+dutchText+"\n", "Energieprijzen", "NOS")

	require.NoError(t, err)
	assert.Equal(t, dutchText, article.Text)
	assert.Equal(t, "Energieprijzen", article.Title)
	assert.Equal(t, "NOS", article.Source)
	assert.Equal(t, "nl", article.Language)
}

func TestFromTextDetectsEnglish(t *testing.T) {
	article, err := FromText(englishText, "Energy prices", "")

	require.NoError(t, err)
	assert.Equal(t, "en", article.Language)
}

func TestFromURLExtractsReadableContent(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>Energy measures announced - Example News</title></head>
<body><article><h1>Energy measures announced</h1>
<p>` + englishText + `</p>
<p>` + englishText + `</p>
</article></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	article, err := FromURL(server.URL + "/news/article")

	require.NoError(t, err)
	assert.Contains(t, article.Text, "comprehensive package of measures")
	assert.NotEmpty(t, article.Title)
	assert.Equal(t, server.URL+"/news/article", article.SourceURL)
	assert.Equal(t, "en", article.Language)
}

func TestFromURLPaywalledPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Login</title></head><body><p>Subscribe to read.</p></body></html>`))
	}))
	defer server.Close()

	_, err := FromURL(server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "paywalled")
}

func TestFromURLUnreachable(t *testing.T) {
	_, err := FromURL("http://127.0.0.1:1/article")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not fetch page")
}

func TestHTMLTitleStripsSiteSuffix(t *testing.T) {
	assert.Equal(t, "Big headline",
		htmlTitle(`<html><head><title>Big headline - Example News</title></head></html>`))
	assert.Equal(t, "Big headline",
		htmlTitle(`<html><head><title> Big headline | NOS </title></head></html>`))
	assert.Empty(t, htmlTitle(`<html><head></head></html>`))
}

func TestDomainToSource(t *testing.T) {
	assert.Equal(t, "NOS", domainToSource("https://nos.nl/artikel/123"))
	assert.Equal(t, "NU", domainToSource("https://www.nu.nl/a"))
	assert.Equal(t, "Volkskrant", domainToSource("https://www.volkskrant.nl/x"))
	assert.Equal(t, "", domainToSource("not a url"))
}

func TestDetectLanguageFallsBackToDutch(t *testing.T) {
	assert.Equal(t, "nl", detectLanguage("zzz qqq xxx", "", ""))

	french := "Le gouvernement a annoncé aujourd'hui de nouvelles mesures pour compenser " +
		"la hausse des prix de l'énergie pour les ménages dans tout le pays."
	assert.Equal(t, "nl", detectLanguage(french, "", ""))
}

func TestDetectLanguageBritishDomains(t *testing.T) {
	assert.Equal(t, "en-GB", detectLanguage(englishText, "https://www.bbc.co.uk/news/1", ""))
	assert.Equal(t, "en-GB", detectLanguage(englishText, "https://www.theguardian.com/world/1", ""))
	assert.Equal(t, "en", detectLanguage(englishText, "https://edition.cnn.com/world/1", ""))
}

func TestDetectLanguageGerman(t *testing.T) {
	german := "Die Bundesregierung hat heute neue Maßnahmen angekündigt, um die steigenden " +
		"Energiepreise für die Haushalte im ganzen Land auszugleichen. Die Zuschüsse sollen " +
		"Anfang nächsten Jahres in Kraft treten, teilte ein Sprecher in Berlin mit."
	assert.Equal(t, "de", detectLanguage(german, "", ""))
}

func TestFromURLVeryLongSharedURLStillParses(t *testing.T) {
	// Query strings from share sheets must not break host parsing.
	assert.Equal(t, "Example",
		domainToSource("https://example.org/p?utm_source=share&utm_medium="+strings.Repeat("x", 500)))
}
