package models

// Document represents a single regulatory source document loaded into the
// retrieval corpus. Source is the unique identifier (typically the filename).
type Document struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// RetrievedMatch is one ranked result from a similarity search. Score is a
// squared Euclidean distance over the embedding space, so lower means more
// similar. Text is truncated for display; downstream consumers must read
// FullText.
type RetrievedMatch struct {
	Source   string  `json:"source"`
	Text     string  `json:"text"`
	FullText string  `json:"full_text"`
	Score    float64 `json:"score"`
}
