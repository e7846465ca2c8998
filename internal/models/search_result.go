package models

// DocumentMetadata identifies where a retrieved passage came from.
type DocumentMetadata struct {
	FileName   string  `json:"fileName"`
	SessionID  string  `json:"sessionId"`
	PageNumber *int    `json:"pageNumber,omitempty"`
	Section    *string `json:"section,omitempty"`
}

// DocumentSearchResult is a passage returned by the search index, scored by the
// index's own relevance ranking. Consumed within one retrieval+response cycle,
// never persisted.
type DocumentSearchResult struct {
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
	Score    float64          `json:"score"`
}
