package model

// Feedback is a user rating of one assistant answer, forwarded to the
// feedback sink as a single record. The submission date is stamped
// server-side when the record is built.
type Feedback struct {
	Rating         float64 `json:"rating"`
	Question       string  `json:"question"`
	Context        string  `json:"context"`
	Answer         string  `json:"answer"`
	Model          string  `json:"model"`
	ResponseTimeMs int64   `json:"responseTimeMs"`
}
