package azsearch

// SearchDocument is the indexed shape produced by the blob indexer. Field
// names follow the index schema, including the storage metadata projections.
type SearchDocument struct {
	ID                  string  `json:"id"`
	Content             string  `json:"content"`
	MetadataStorageName string  `json:"metadata_storage_name"`
	MetadataStoragePath string  `json:"metadata_storage_path"`
	SessionID           string  `json:"sessionId"`
	PageNumber          *int    `json:"pageNumber,omitempty"`
	Section             *string `json:"section,omitempty"`
}

// SearchResult pairs an indexed document with the index's relevance score.
type SearchResult struct {
	Document SearchDocument
	Score    float64
}

// SearchOptions narrows a query. Top defaults to 10 when zero.
type SearchOptions struct {
	Filter  string
	Top     int
	Skip    int
	OrderBy []string
}

// IndexerRunResult is the terminal state of the indexer's most recent run.
type IndexerRunResult struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ItemCount    int    `json:"itemsProcessed,omitempty"`
}

// IndexerStatus is the indexer-level status report.
type IndexerStatus struct {
	Status     string            `json:"status"`
	LastResult *IndexerRunResult `json:"lastResult,omitempty"`
}

// Terminal lastResult states reported by the search service.
const (
	IndexerRunSuccess          = "success"
	IndexerRunTransientFailure = "transientFailure"
	IndexerRunError            = "error"
)

type searchRequest struct {
	Search     string `json:"search"`
	Filter     string `json:"filter,omitempty"`
	Top        int    `json:"top,omitempty"`
	Skip       int    `json:"skip,omitempty"`
	OrderBy    string `json:"orderby,omitempty"`
	SearchMode string `json:"searchMode"`
	QueryType  string `json:"queryType"`
	Count      bool   `json:"count"`
}

type searchResponseItem struct {
	SearchDocument
	Score float64 `json:"@search.score"`
}

type searchResponse struct {
	Count int64                `json:"@odata.count"`
	Value []searchResponseItem `json:"value"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
