package models

// Article is the transient output of text extraction. It has no identity and
// lives only for the duration of one pipeline run.
type Article struct {
	Text      string
	Title     string
	Source    string
	SourceURL string
	Date      string
	Language  string
	ImageURL  string
}
