package tts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextEmpty(t *testing.T) {
	assert.Empty(t, SplitText("", 100))
	assert.Empty(t, SplitText("   \n\n  ", 100))
}

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("Hello world.", 100)
	assert.Equal(t, []string{"Hello world."}, chunks)
}

func TestSplitTextPrefersParagraphBoundaries(t *testing.T) {
	paragraphs := []string{
		"First paragraph with some words in it.",
		"Second paragraph, also with words.",
		"Third paragraph rounds it out.",
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := SplitText(text, 40)

	assert.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 40)
		assert.NotContains(t, chunk, "\n\n")
	}
	// Rejoining reproduces the content in reading order.
	assert.Equal(t, text, strings.Join(chunks, "\n\n"))
}

func TestSplitTextPacksParagraphsUpToBudget(t *testing.T) {
	text := "One.\n\nTwo.\n\nThree."
	chunks := SplitText(text, 12)

	// "One.\n\nTwo." is 10 bytes and fits; "Three." starts a new chunk.
	assert.Equal(t, []string{"One.\n\nTwo.", "Three."}, chunks)
}

func TestSplitTextFallsBackToSentences(t *testing.T) {
	text := "First sentence here. Second sentence here! Third one, with a question? Fourth and final sentence."

	chunks := SplitText(text, 50)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
	}
	assert.Equal(t, text, strings.Join(chunks, " "))
}

func TestSplitTextOversizeSentenceEmittedUnsplit(t *testing.T) {
	long := "This single sentence is far longer than the configured budget and has no inner boundary."
	chunks := SplitText(long+" Short one.", 40)

	assert.Contains(t, chunks, long)
	assert.Contains(t, chunks, "Short one.")
}

func TestSplitTextBudgetRespectedOnUTF8(t *testing.T) {
	text := strings.Repeat("Één zin met accenten hier. ", 20)
	chunks := SplitText(strings.TrimSpace(text), 100)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100, "byte length must respect the budget")
	}
	rejoined := strings.Join(chunks, " ")
	assert.Equal(t, strings.TrimSpace(text), rejoined)
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("One two. Three four! Five six? Seven")
	assert.Equal(t, []string{"One two.", "Three four!", "Five six?", "Seven"}, sentences)
}
