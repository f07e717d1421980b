package models

import "time"

// Snapshot is one immutable capture of a document's extracted text.
type Snapshot struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"service_id"`
	URL         string    `json:"url"`
	ContentHash string    `json:"content_hash"`
	Content     string    `json:"content"`
	WordCount   int       `json:"word_count"`
	FetchedAt   time.Time `json:"fetched_at"`
}
