package tts

import (
	"regexp"
	"strings"
	"unicode"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)

// SplitText splits text into chunks whose UTF-8 byte length stays within
// maxBytes, preferring paragraph boundaries (blank-line separated blocks) and
// falling back to sentence boundaries only when a single paragraph exceeds
// the budget. A sentence that is itself over budget is emitted unsplit: a
// mid-word split would corrupt the synthesized speech, so the oversized
// provider call is allowed to fail instead. Empty input yields no chunks.
// Joining the chunks back with paragraph breaks reproduces the content in
// reading order.
func SplitText(text string, maxBytes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxBytes <= 0 || len(text) <= maxBytes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	pack := func(piece, sep string) {
		if current.Len() > 0 && current.Len()+len(sep)+len(piece) > maxBytes {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
		if current.Len() > maxBytes {
			// A single unsplittable piece over budget: emit as-is.
			flush()
		}
	}

	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxBytes {
			pack(para, "\n\n")
			continue
		}
		// Paragraph alone exceeds the budget: split it into sentences and
		// pack those into their own chunks.
		flush()
		for _, sentence := range splitSentences(para) {
			pack(sentence, " ")
		}
		flush()
	}
	flush()
	return chunks
}

// splitSentences breaks a paragraph after '.', '!' or '?' followed by
// whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') &&
			(i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	if len(sentences) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return sentences
}
