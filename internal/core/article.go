package core

import "context"

// RawArticle is the validated intermediate record at the ingestion boundary.
// Fields mirror the upstream payload; pointer fields distinguish "absent"
// from zero values during validation.
type RawArticle struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Rights        string `json:"rights"`
	PublishedDate string `json:"published_date"`
	Summary       string `json:"summary"`
	Topic         string `json:"topic"`
	Language      string `json:"language"`
	Country       string `json:"country"`
	Rank          *int   `json:"rank"`
}

// NewsSource returns raw article payloads for a keyword query within a
// recent date window.
type NewsSource interface {
	FetchNews(ctx context.Context, keywords []string) ([]RawArticle, error)
}

// Summarizer produces one or more candidate abstractive summaries for a
// text blob.
type Summarizer interface {
	Summarize(ctx context.Context, text string) ([]string, error)
}

// ImageGenerator turns an article title into an encoded image payload.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
