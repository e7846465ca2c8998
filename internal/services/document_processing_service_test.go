package services

import (
	"context"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"docuchat-ai/pkg/azsearch"
	"docuchat-ai/pkg/blobstore"
	"docuchat-ai/pkg/llm"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobUploader struct {
	err     error
	uploads int
}

func (u *fakeBlobUploader) Upload(ctx context.Context, file blobstore.UploadInput, sessionID string) (*blobstore.UploadResult, error) {
	u.uploads++
	if u.err != nil {
		return nil, u.err
	}
	return &blobstore.UploadResult{BlobName: sessionID + "/" + file.Name}, nil
}

type fakeIndexer struct {
	err  error
	runs int
}

func (i *fakeIndexer) RunIndexer(ctx context.Context, indexerName string) error {
	i.runs++
	return i.err
}

func (i *fakeIndexer) WaitForIndexerCompletion(ctx context.Context, indexerName string, maxWait time.Duration) (*azsearch.IndexerStatus, error) {
	return &azsearch.IndexerStatus{
		Status:     "running",
		LastResult: &azsearch.IndexerRunResult{Status: azsearch.IndexerRunSuccess},
	}, nil
}

type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, data []byte, expiredTime time.Duration) error {
	c.store[key] = string(data)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := c.store[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return value, nil
}

// pollingRetriever returns empty result sets for the first N calls, then a
// hit, so wait loops can be exercised deterministically.
type pollingRetriever struct {
	emptyRounds int
	err         error
	calls       int
	results     []models.DocumentSearchResult
	bulkResults []models.DocumentSearchResult
	bulkCalls   int
}

func (r *pollingRetriever) Search(ctx context.Context, query, sessionID string, top, skip int) ([]models.DocumentSearchResult, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if r.calls <= r.emptyRounds {
		return nil, nil
	}
	return r.results, nil
}

func (r *pollingRetriever) GetAllForSession(ctx context.Context, sessionID string) ([]models.DocumentSearchResult, error) {
	r.bulkCalls++
	if r.bulkResults != nil {
		return r.bulkResults, nil
	}
	return r.Search(ctx, "*", sessionID, constants.BulkRetrievalCap, 0)
}

func newPipelineService(blob *fakeBlobUploader, indexer *fakeIndexer, retriever ContentRetriever, llmClient llm.Client, chatSvc ChatService, cache SummaryCache) DocumentProcessingService {
	return NewDocumentProcessingService(
		blob, indexer, retriever, llmClient, chatSvc, cache,
		20*time.Millisecond, 200*time.Millisecond, 10*time.Millisecond, time.Hour,
	)
}

func uploadInput(name string) blobstore.UploadInput {
	return blobstore.UploadInput{
		Name:        name,
		ContentType: "application/pdf",
		Size:        64,
		Reader:      strings.NewReader("not a real pdf"),
	}
}

func TestWaitForContentReturnsOnFirstHit(t *testing.T) {
	retriever := &pollingRetriever{results: []models.DocumentSearchResult{
		passage("report.pdf", "chunk", nil, 1.0),
	}}
	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, &stubLLM{}, nil, newFakeCache())

	result := svc.WaitForContent(context.Background(), "session-1", "report.pdf", 200*time.Millisecond, 10*time.Millisecond)

	assert.Equal(t, IndexWaitIndexed, result.State)
	assert.Equal(t, 1, result.Polls)
}

func TestWaitForContentBacksOffUntilHit(t *testing.T) {
	retriever := &pollingRetriever{
		emptyRounds: 3,
		results:     []models.DocumentSearchResult{passage("report.pdf", "chunk", nil, 1.0)},
	}
	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, &stubLLM{}, nil, newFakeCache())

	result := svc.WaitForContent(context.Background(), "session-1", "report.pdf", time.Second, 5*time.Millisecond)

	assert.Equal(t, IndexWaitIndexed, result.State)
	assert.Equal(t, 4, result.Polls)
}

func TestWaitForContentTimesOutAsNotIndexed(t *testing.T) {
	retriever := &pollingRetriever{emptyRounds: 1000}
	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, &stubLLM{}, nil, newFakeCache())

	result := svc.WaitForContent(context.Background(), "session-1", "report.pdf", 50*time.Millisecond, 10*time.Millisecond)

	assert.Equal(t, IndexWaitNotIndexed, result.State)
	assert.GreaterOrEqual(t, result.Polls, 1)
	assert.NoError(t, result.Err)
}

func TestWaitForContentReportsProbeFailures(t *testing.T) {
	retriever := &pollingRetriever{err: errors.New("search unavailable")}
	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, &stubLLM{}, nil, newFakeCache())

	result := svc.WaitForContent(context.Background(), "session-1", "report.pdf", 50*time.Millisecond, 10*time.Millisecond)

	assert.Equal(t, IndexWaitFailed, result.State)
	assert.Error(t, result.Err)
}

func TestWaitForContentHonorsContextCancellation(t *testing.T) {
	retriever := &pollingRetriever{emptyRounds: 1000}
	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, &stubLLM{}, nil, newFakeCache())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := svc.WaitForContent(ctx, "session-1", "report.pdf", time.Second, 10*time.Millisecond)

	assert.Equal(t, IndexWaitFailed, result.State)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestProcessDocumentAbortsOnUploadFailure(t *testing.T) {
	blob := &fakeBlobUploader{err: errors.New("storage unavailable")}
	indexer := &fakeIndexer{}
	svc := newPipelineService(blob, indexer, &pollingRetriever{}, &stubLLM{}, nil, newFakeCache())

	result := svc.ProcessDocument(context.Background(), uploadInput("report.pdf"), "session-1")

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "blob storage")
	assert.Zero(t, indexer.runs, "indexer must not run after a failed upload")
}

func TestProcessDocumentAbortsOnIndexerFailure(t *testing.T) {
	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{err: errors.New("indexer busy")}, &pollingRetriever{}, &stubLLM{}, nil, newFakeCache())

	result := svc.ProcessDocument(context.Background(), uploadInput("report.pdf"), "session-1")

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "indexing")
}

func TestProcessDocumentHappyPath(t *testing.T) {
	retriever := &pollingRetriever{results: []models.DocumentSearchResult{
		passage("report.pdf", "Quarterly results improved.", nil, 1.0),
		passage("report.pdf", "Guidance unchanged.", nil, 0.8),
	}}
	llmStub := &stubLLM{response: "revenue, guidance"}

	repo := newFakeSessionRepo()
	repo.sessions["session-1"] = models.NewChatSession("session-1", "report.pdf", nil)
	chatSvc := NewChatService(repo, retriever, llmStub)
	cache := newFakeCache()

	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, llmStub, chatSvc, cache)

	result := svc.ProcessDocument(context.Background(), uploadInput("report.pdf"), "session-1")

	assert.True(t, result.Success)
	assert.Equal(t, "session-1-report.pdf", result.DocumentID)
	require.NotNil(t, result.Summary)
	assert.Equal(t, []string{"revenue", "guidance"}, result.Topics)

	// Summary and topics land in the session transcript as assistant messages.
	messages := repo.sessions["session-1"].Messages
	require.Len(t, messages, 2)
	assert.True(t, strings.HasPrefix(messages[0].ID, constants.SummaryMessageIDPrefix+"-"))
	assert.Contains(t, messages[0].Content, constants.SummaryMessagePrefix)
	assert.True(t, strings.HasPrefix(messages[1].ID, constants.TopicsMessageIDPrefix+"-"))
	assert.Contains(t, messages[1].Content, "Key Topics")

	// Enrichment is cached for summary lookups.
	cached, err := cache.Get(context.Background(), "docuchat:summary:session-1")
	require.NoError(t, err)
	assert.Contains(t, cached, "revenue")
}

func TestProcessDocumentDegradesWhenEnrichmentFails(t *testing.T) {
	retriever := &pollingRetriever{results: []models.DocumentSearchResult{
		passage("report.pdf", "content", nil, 1.0),
	}}
	llmStub := &stubLLM{err: errors.New("model unavailable")}

	repo := newFakeSessionRepo()
	repo.sessions["session-1"] = models.NewChatSession("session-1", "report.pdf", nil)
	chatSvc := NewChatService(repo, retriever, llmStub)

	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, llmStub, chatSvc, newFakeCache())

	result := svc.ProcessDocument(context.Background(), uploadInput("report.pdf"), "session-1")

	assert.True(t, result.Success, "enrichment failure must not fail the upload")
	require.NotNil(t, result.Summary)
	assert.Equal(t, constants.FallbackSummary, *result.Summary)
	assert.Empty(t, result.Topics)
}

func TestProcessDocumentDegradesWithoutModelClient(t *testing.T) {
	retriever := &pollingRetriever{results: []models.DocumentSearchResult{
		passage("report.pdf", "content", nil, 1.0),
	}}

	repo := newFakeSessionRepo()
	repo.sessions["session-1"] = models.NewChatSession("session-1", "report.pdf", nil)
	chatSvc := NewChatService(repo, retriever, nil)

	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, nil, chatSvc, newFakeCache())

	result := svc.ProcessDocument(context.Background(), uploadInput("report.pdf"), "session-1")

	assert.True(t, result.Success, "missing model client must not fail the upload")
	require.NotNil(t, result.Summary)
	assert.Equal(t, constants.FallbackSummary, *result.Summary)
	assert.Empty(t, result.Topics)
}

func TestProcessDocumentFallsBackToBulkExtraction(t *testing.T) {
	// Name-scoped search never hits, but the session holds indexed content.
	retriever := &pollingRetriever{
		emptyRounds: 1 << 20,
		bulkResults: []models.DocumentSearchResult{
			passage("report.pdf", "Quarterly results improved.", nil, 1.0),
		},
	}
	llmStub := &stubLLM{response: "revenue"}

	repo := newFakeSessionRepo()
	repo.sessions["session-1"] = models.NewChatSession("session-1", "report.pdf", nil)
	chatSvc := NewChatService(repo, retriever, llmStub)

	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, retriever, llmStub, chatSvc, newFakeCache())

	result := svc.ProcessDocument(context.Background(), uploadInput("report.pdf"), "session-1")

	assert.True(t, result.Success)
	require.NotNil(t, result.Summary)
	assert.Equal(t, []string{"revenue"}, result.Topics)
	assert.GreaterOrEqual(t, retriever.bulkCalls, 1)
	assert.Contains(t, llmStub.document, "Quarterly results improved.")
}

func TestGetDocumentSummaryPrefersCache(t *testing.T) {
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), "docuchat:summary:session-1", []byte(`{"summary":"cached summary","topics":[]}`), time.Hour))

	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, &pollingRetriever{}, &stubLLM{}, nil, cache)

	summary, err := svc.GetDocumentSummary(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "cached summary", summary)
}

func TestGetDocumentSummaryFallsBackToTranscript(t *testing.T) {
	repo := newFakeSessionRepo()
	session := models.NewChatSession("session-1", "report.pdf", nil)
	session.Messages = append(session.Messages, models.Message{
		ID:      "summary-1",
		Content: constants.SummaryMessageContent("report.pdf", "stored summary"),
	})
	repo.sessions["session-1"] = session
	chatSvc := NewChatService(repo, &fakeRetriever{}, &stubLLM{})

	svc := newPipelineService(&fakeBlobUploader{}, &fakeIndexer{}, &pollingRetriever{}, &stubLLM{}, chatSvc, newFakeCache())

	summary, err := svc.GetDocumentSummary(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Contains(t, summary, "stored summary")
}
