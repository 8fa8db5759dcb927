package model

// Document is a row of the knowledge base: an article chunk with its
// embedding stored alongside.
type Document struct {
	ID         int64   `json:"id" db:"id"`
	Title      string  `json:"title" db:"title"`
	Content    string  `json:"content" db:"content"`
	URL        string  `json:"url" db:"url"`
	Similarity float64 `json:"similarity" db:"similarity"`
}

// SearchResult is one semantic search hit as returned to callers.
type SearchResult struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	URL        string  `json:"url,omitempty"`
	Similarity float64 `json:"similarity"`
}
