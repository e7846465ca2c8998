package constants

// Document pipeline and retrieval bounds.
const (
	// Indexing is asynchronous with no completion callback, so the pipeline
	// polls the index for the uploaded content within a bounded budget.
	DefaultIndexWaitTimeoutMs  = 30000
	DefaultIndexPollIntervalMs = 2000
	// Poll interval backoff: multiply by 3/2 each round, capped.
	IndexPollBackoffNumerator   = 3
	IndexPollBackoffDenominator = 2
	MaxIndexPollIntervalMs      = 8000

	// Service-level indexer status polling budget.
	DefaultIndexerWaitTimeoutMs = 60000

	// Retrieval bounds.
	DefaultSearchTop    = 10
	BulkRetrievalCap    = 50
	ContextPassageCount = 5
	ExtractPassageCount = 10

	// Prompt bounds.
	ConversationHistoryLimit = 10
	TopicInputCharLimit      = 3000
)
