package scriptgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-podcaster/internal/models"
)

func anthropicResponse(text string) string {
	out, _ := json.Marshal(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(out)
}

func testGenerator(baseURL string) *Generator {
	return &Generator{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-20250514",
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateBuildsPromptAndParsesResponse(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(anthropicResponse("Goedemorgen, hier is het nieuws.")))
	}))
	defer server.Close()

	g := testGenerator(server.URL)
	article := models.Article{
		Title:    "Nieuws van vandaag",
		Source:   "NOS",
		Date:     "2024-01-02",
		Text:     "De regering kondigde nieuwe maatregelen aan.",
		Language: "nl",
	}

	script, err := g.Generate(context.Background(), article)

	require.NoError(t, err)
	assert.Equal(t, "Goedemorgen, hier is het nieuws.", script)

	messages := gotBody["messages"].([]any)
	content := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, content, "Title: Nieuws van vandaag")
	assert.Contains(t, content, "Source: NOS")
	assert.Contains(t, content, "Date: 2024-01-02")
	assert.Contains(t, content, article.Text)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	g := &Generator{Client: http.DefaultClient}
	_, err := g.Generate(context.Background(), models.Article{Text: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testGenerator(server.URL).Generate(context.Background(), models.Article{Text: "text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	_, err := testGenerator(server.URL).Generate(context.Background(), models.Article{Text: "text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGenerateAppliesGrammarFixes(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(anthropicResponse("Het weer word beter.")))
	}))
	defer api.Close()

	grammar := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Het weer word beter.", r.FormValue("text"))
		assert.Equal(t, "nl", r.FormValue("language"))
		w.Write([]byte(`{"matches": [
			{"offset": 9, "length": 4, "replacements": [{"value": "wordt"}], "rule": {"id": "DT"}}
		]}`))
	}))
	defer grammar.Close()

	g := testGenerator(api.URL)
	g.GrammarURL = grammar.URL

	script, err := g.Generate(context.Background(), models.Article{Text: "text", Language: "nl"})

	require.NoError(t, err)
	assert.Equal(t, "Het weer wordt beter.", script)
}

func TestGenerateGrammarUnreachableKeepsScript(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(anthropicResponse("Het script blijft zoals het is.")))
	}))
	defer api.Close()

	g := testGenerator(api.URL)
	g.GrammarURL = "http://127.0.0.1:1/v2/check"

	script, err := g.Generate(context.Background(), models.Article{Text: "text", Language: "nl"})

	require.NoError(t, err)
	assert.Equal(t, "Het script blijft zoals het is.", script)
}

func TestApplyMatchesDescendingOffsets(t *testing.T) {
	text := "aaa bbb ccc"
	matches := []grammarMatch{
		{Offset: 0, Length: 3, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "AAA"}}},
		{Offset: 8, Length: 3, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "CCCC"}}},
	}

	assert.Equal(t, "AAA bbb CCCC", applyMatches(text, matches))
}

func TestApplyMatchesCountsCharactersNotBytes(t *testing.T) {
	// A multibyte rune before the match must not shift the replaced span.
	text := "Héllo wrld everyone"
	matches := []grammarMatch{
		{Offset: 6, Length: 4, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "world"}}},
	}

	assert.Equal(t, "Héllo world everyone", applyMatches(text, matches))
}

func TestApplyMatchesDiacriticsInReplacement(t *testing.T) {
	text := "Het is een feit."
	matches := []grammarMatch{
		{Offset: 11, Length: 4, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "fêit"}}},
	}

	assert.Equal(t, "Het is een fêit.", applyMatches(text, matches))
}

func TestApplyMatchesSkipsOutOfRange(t *testing.T) {
	text := "short"
	matches := []grammarMatch{
		{Offset: 10, Length: 5, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "nope"}}},
		{Offset: -1, Length: 2, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "nope"}}},
		{Offset: 0, Length: 5},
	}

	assert.Equal(t, "short", applyMatches(text, matches))
}
