package services

import (
	"context"
	"docuchat-ai/internal/apis/dtos"
	"docuchat-ai/internal/apperrors"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"docuchat-ai/pkg/azsearch"
	"docuchat-ai/pkg/blobstore"
	"docuchat-ai/pkg/llm"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobUploader is the slice of the blob store the pipeline consumes.
type BlobUploader interface {
	Upload(ctx context.Context, file blobstore.UploadInput, sessionID string) (*blobstore.UploadResult, error)
}

// IndexerClient triggers the search service's indexing job and reports on its
// progress.
type IndexerClient interface {
	RunIndexer(ctx context.Context, indexerName string) error
	WaitForIndexerCompletion(ctx context.Context, indexerName string, maxWait time.Duration) (*azsearch.IndexerStatus, error)
}

// SummaryCache holds the once-per-session enrichment results.
type SummaryCache interface {
	Set(ctx context.Context, key string, data []byte, expiredTime time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// IndexWaitState distinguishes "content appeared", "not yet indexed when the
// budget ran out", and "the probe itself kept failing".
type IndexWaitState string

const (
	IndexWaitIndexed    IndexWaitState = "indexed"
	IndexWaitNotIndexed IndexWaitState = "not_indexed"
	IndexWaitFailed     IndexWaitState = "failed"
)

type IndexWaitResult struct {
	State IndexWaitState
	Polls int
	Err   error
}

type DocumentProcessingService interface {
	ProcessDocument(ctx context.Context, file blobstore.UploadInput, sessionID string) *dtos.DocumentProcessingResult
	WaitForContent(ctx context.Context, sessionID, probeQuery string, timeout, initialInterval time.Duration) IndexWaitResult
	GetDocumentSummary(ctx context.Context, sessionID string) (string, error)
}

type documentProcessingService struct {
	blob           BlobUploader
	indexer        IndexerClient
	retriever      ContentRetriever
	llmClient      llm.Client
	chatService    ChatService
	cache          SummaryCache
	indexerTimeout time.Duration
	waitTimeout    time.Duration
	pollInterval   time.Duration
	cacheTTL       time.Duration
}

func NewDocumentProcessingService(
	blob BlobUploader,
	indexer IndexerClient,
	retriever ContentRetriever,
	llmClient llm.Client,
	chatService ChatService,
	cache SummaryCache,
	indexerTimeout time.Duration,
	waitTimeout time.Duration,
	pollInterval time.Duration,
	cacheTTL time.Duration,
) DocumentProcessingService {
	return &documentProcessingService{
		blob:           blob,
		indexer:        indexer,
		retriever:      retriever,
		llmClient:      llmClient,
		chatService:    chatService,
		cache:          cache,
		indexerTimeout: indexerTimeout,
		waitTimeout:    waitTimeout,
		pollInterval:   pollInterval,
		cacheTTL:       cacheTTL,
	}
}

type cachedEnrichment struct {
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

func summaryCacheKey(sessionID string) string {
	return "docuchat:summary:" + sessionID
}

// ProcessDocument runs the full upload pipeline: blob upload, index trigger,
// bounded wait for the content to appear, bulk extraction, summarization and
// topic extraction, and session enrichment. Storage and indexing failures
// abort the pipeline; enrichment failures degrade gracefully.
func (s *documentProcessingService) ProcessDocument(ctx context.Context, file blobstore.UploadInput, sessionID string) *dtos.DocumentProcessingResult {
	log.Printf("ProcessDocument -> starting pipeline for %q in session %s", file.Name, sessionID)

	if _, err := s.blob.Upload(ctx, file, sessionID); err != nil {
		err = fmt.Errorf("%w: failed to upload document to blob storage: %v", apperrors.ErrUpload, err)
		return failedResult(file.Name, err.Error())
	}
	log.Printf("ProcessDocument -> document uploaded to blob storage")

	if err := s.indexer.RunIndexer(ctx, ""); err != nil {
		return failedResult(file.Name, fmt.Sprintf("failed to trigger indexing: %v", err))
	}
	log.Printf("ProcessDocument -> search indexing triggered")

	// Best effort: the indexer status tells us the job finished, but content
	// visibility in the index lags it, so the content probe below remains the
	// authoritative signal.
	if _, err := s.indexer.WaitForIndexerCompletion(ctx, "", s.indexerTimeout); err != nil {
		log.Printf("Warning: indexer completion wait ended early: %v", err)
	}

	wait := s.WaitForContent(ctx, sessionID, file.Name, s.waitTimeout, s.pollInterval)
	switch wait.State {
	case IndexWaitIndexed:
		log.Printf("ProcessDocument -> document indexing completed after %d polls", wait.Polls)
	case IndexWaitNotIndexed:
		log.Printf("Warning: document indexing may not be complete after %d polls, continuing...", wait.Polls)
	case IndexWaitFailed:
		log.Printf("Warning: index probes failed (%v), continuing...", wait.Err)
	}

	documentContent := s.extractDocumentContent(ctx, sessionID, file.Name)

	var summary string
	var topics []string
	if documentContent != "" {
		summary = s.summarize(ctx, documentContent, file.Name)
		topics = s.extractTopics(ctx, documentContent)
	}

	s.updateSessionWithDocument(ctx, sessionID, file.Name, summary, topics)
	s.cacheEnrichment(ctx, sessionID, summary, topics)

	log.Printf("ProcessDocument -> pipeline completed for %q", file.Name)

	result := &dtos.DocumentProcessingResult{
		Success:      true,
		DocumentID:   fmt.Sprintf("%s-%s", sessionID, file.Name),
		DocumentName: file.Name,
		Topics:       topics,
	}
	if summary != "" {
		result.Summary = &summary
	}
	return result
}

// WaitForContent polls the index for session-scoped content matching the
// probe query. Indexing completion is not signaled by any callback, so a
// bounded poll with backoff is the only completion signal; the caller decides
// what to do when the budget runs out.
func (s *documentProcessingService) WaitForContent(ctx context.Context, sessionID, probeQuery string, timeout, initialInterval time.Duration) IndexWaitResult {
	deadline := time.Now().Add(timeout)
	interval := initialInterval
	maxInterval := time.Duration(constants.MaxIndexPollIntervalMs) * time.Millisecond

	polls := 0
	var lastErr error

	for {
		results, err := s.retriever.Search(ctx, probeQuery, sessionID, 1, 0)
		polls++
		if err != nil {
			lastErr = err
		} else if len(results) > 0 {
			return IndexWaitResult{State: IndexWaitIndexed, Polls: polls}
		}

		if time.Now().Add(interval).After(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			return IndexWaitResult{State: IndexWaitFailed, Polls: polls, Err: ctx.Err()}
		case <-time.After(interval):
		}

		interval = interval * constants.IndexPollBackoffNumerator / constants.IndexPollBackoffDenominator
		if interval > maxInterval {
			interval = maxInterval
		}
	}

	if lastErr != nil {
		return IndexWaitResult{State: IndexWaitFailed, Polls: polls, Err: lastErr}
	}
	return IndexWaitResult{State: IndexWaitNotIndexed, Polls: polls}
}

// GetDocumentSummary returns the session's document summary, serving from the
// cache when possible and falling back to scanning the session's messages.
func (s *documentProcessingService) GetDocumentSummary(ctx context.Context, sessionID string) (string, error) {
	if cached, err := s.cache.Get(ctx, summaryCacheKey(sessionID)); err == nil {
		var enrichment cachedEnrichment
		if err := json.Unmarshal([]byte(cached), &enrichment); err == nil && enrichment.Summary != "" {
			return enrichment.Summary, nil
		}
	}

	restore, _, err := s.chatService.RestoreSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !restore.Success || restore.Session == nil {
		return "", nil
	}

	for _, msg := range restore.Session.Messages {
		if !msg.IsUser && strings.Contains(msg.Content, constants.SummaryMessagePrefix) {
			return msg.Content, nil
		}
	}
	return "", nil
}

func (s *documentProcessingService) extractDocumentContent(ctx context.Context, sessionID, fileName string) string {
	results, err := s.retriever.Search(ctx, fileName, sessionID, constants.ExtractPassageCount, 0)
	if err != nil {
		log.Printf("extractDocumentContent -> %v", err)
		return ""
	}
	if len(results) == 0 {
		// The name-scoped query can miss when the index stores a mangled
		// storage name; fall back to everything in the session.
		results, err = s.retriever.GetAllForSession(ctx, sessionID)
		if err != nil {
			log.Printf("extractDocumentContent -> %v", err)
			return ""
		}
		if len(results) > constants.ExtractPassageCount {
			results = results[:constants.ExtractPassageCount]
		}
	}
	if len(results) == 0 {
		return ""
	}

	chunks := make([]string, 0, len(results))
	for _, result := range results {
		chunks = append(chunks, result.Content)
	}
	return strings.Join(chunks, "\n\n")
}

// summarize is a soft step: failures collapse to a fallback string so the
// document still becomes usable without a summary.
func (s *documentProcessingService) summarize(ctx context.Context, documentContent, documentName string) string {
	if s.llmClient == nil {
		log.Printf("Warning: no model client configured, continuing without summary")
		return constants.FallbackSummary
	}

	summary, err := s.llmClient.SummarizeDocument(ctx, documentContent, documentName)
	if err != nil {
		log.Printf("Warning: summarization failed, continuing without summary: %v", err)
		return constants.FallbackSummary
	}
	return summary
}

// extractTopics is a soft step: an empty topic list means "no topics", never
// an error.
func (s *documentProcessingService) extractTopics(ctx context.Context, documentContent string) []string {
	if s.llmClient == nil {
		return nil
	}

	topics, err := s.llmClient.ExtractTopics(ctx, documentContent)
	if err != nil {
		log.Printf("Warning: topic extraction failed, continuing without topics: %v", err)
		return nil
	}
	return topics
}

func (s *documentProcessingService) updateSessionWithDocument(ctx context.Context, sessionID, documentName, summary string, topics []string) {
	if summary != "" {
		message := models.Message{
			ID:        fmt.Sprintf("%s-%s", constants.SummaryMessageIDPrefix, uuid.NewString()),
			Content:   constants.SummaryMessageContent(documentName, summary),
			IsUser:    false,
			Timestamp: time.Now(),
		}
		if _, _, err := s.chatService.SaveMessage(ctx, sessionID, message); err != nil {
			log.Printf("Warning: failed to append summary message: %v", err)
		}
	}

	if len(topics) > 0 {
		message := models.Message{
			ID:        fmt.Sprintf("%s-%s", constants.TopicsMessageIDPrefix, uuid.NewString()),
			Content:   constants.TopicsMessageContent(documentName, topics),
			IsUser:    false,
			Timestamp: time.Now(),
		}
		if _, _, err := s.chatService.SaveMessage(ctx, sessionID, message); err != nil {
			log.Printf("Warning: failed to append topics message: %v", err)
		}
	}
}

func (s *documentProcessingService) cacheEnrichment(ctx context.Context, sessionID, summary string, topics []string) {
	if summary == "" && len(topics) == 0 {
		return
	}

	data, err := json.Marshal(cachedEnrichment{Summary: summary, Topics: topics})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey(sessionID), data, s.cacheTTL); err != nil {
		log.Printf("Warning: failed to cache document enrichment: %v", err)
	}
}

func failedResult(documentName, errMsg string) *dtos.DocumentProcessingResult {
	log.Printf("ProcessDocument -> %s", errMsg)
	return &dtos.DocumentProcessingResult{
		Success:      false,
		DocumentName: documentName,
		Error:        &errMsg,
	}
}
