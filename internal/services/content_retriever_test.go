package services

import (
	"context"
	"docuchat-ai/internal/apperrors"
	"docuchat-ai/internal/constants"
	"docuchat-ai/pkg/azsearch"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearchIndex struct {
	results  []azsearch.SearchResult
	err      error
	lastOpts azsearch.SearchOptions
	lastQ    string
}

func (f *fakeSearchIndex) Search(ctx context.Context, query string, opts azsearch.SearchOptions) ([]azsearch.SearchResult, error) {
	f.lastQ = query
	f.lastOpts = opts
	return f.results, f.err
}

func indexHit(name, content, sessionID string, score float64) azsearch.SearchResult {
	return azsearch.SearchResult{
		Document: azsearch.SearchDocument{
			Content:             content,
			MetadataStorageName: name,
			SessionID:           sessionID,
		},
		Score: score,
	}
}

func TestRetrieverScopesQueryToSession(t *testing.T) {
	index := &fakeSearchIndex{}
	retriever := NewContentRetriever(index)

	_, err := retriever.Search(context.Background(), "revenue", "session-1", 5, 0)
	require.NoError(t, err)

	assert.Equal(t, "revenue", index.lastQ)
	assert.Equal(t, "sessionId eq 'session-1'", index.lastOpts.Filter)
	assert.Equal(t, 5, index.lastOpts.Top)
}

func TestRetrieverSortsByScoreDescending(t *testing.T) {
	index := &fakeSearchIndex{results: []azsearch.SearchResult{
		indexHit("a.pdf", "low", "session-1", 0.4),
		indexHit("a.pdf", "high", "session-1", 2.2),
		indexHit("a.pdf", "mid", "session-1", 1.1),
	}}
	retriever := NewContentRetriever(index)

	results, err := retriever.Search(context.Background(), "q", "session-1", 10, 0)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "high", results[0].Content)
	assert.Equal(t, "mid", results[1].Content)
	assert.Equal(t, "low", results[2].Content)
}

func TestRetrieverFillsMetadataFallbacks(t *testing.T) {
	index := &fakeSearchIndex{results: []azsearch.SearchResult{
		indexHit("", "orphan chunk", "", 1.0),
	}}
	retriever := NewContentRetriever(index)

	results, err := retriever.Search(context.Background(), "q", "session-1", 10, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Unknown", results[0].Metadata.FileName)
	assert.Equal(t, "session-1", results[0].Metadata.SessionID)
}

func TestRetrieverWrapsSearchErrors(t *testing.T) {
	index := &fakeSearchIndex{err: errors.New("503 from service")}
	retriever := NewContentRetriever(index)

	_, err := retriever.Search(context.Background(), "q", "session-1", 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSearch)
}

func TestGetAllForSessionUsesWildcardAndCap(t *testing.T) {
	index := &fakeSearchIndex{}
	retriever := NewContentRetriever(index)

	_, err := retriever.GetAllForSession(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, "*", index.lastQ)
	assert.Equal(t, constants.BulkRetrievalCap, index.lastOpts.Top)
	assert.Equal(t, "sessionId eq 'session-1'", index.lastOpts.Filter)
}
