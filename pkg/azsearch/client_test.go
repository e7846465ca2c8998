package azsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		IndexName:  "azureblob-index",
		APIVersion: "2023-11-01",
	})
	require.NoError(t, err)
	return client, server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{Endpoint: "https://example.search.windows.net"})
	assert.Error(t, err)

	_, err = NewClient(Config{APIKey: "key"})
	assert.Error(t, err)
}

func TestDefaultIndexerName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, "azureblob-indexer", client.DefaultIndexerName())
}

func TestSearchSendsFilterAndParsesScores(t *testing.T) {
	var gotBody searchRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/indexes/azureblob-index/docs/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"@odata.count": 2,
			"value": []map[string]interface{}{
				{
					"@search.score":         1.8,
					"id":                    "doc-1",
					"content":               "first chunk",
					"metadata_storage_name": "report.pdf",
					"sessionId":             "session-1",
					"pageNumber":            3,
				},
				{
					"@search.score":         0.7,
					"id":                    "doc-2",
					"content":               "second chunk",
					"metadata_storage_name": "report.pdf",
					"sessionId":             "session-1",
				},
			},
		})
	})

	results, err := client.Search(context.Background(), "revenue", SearchOptions{
		Filter: "sessionId eq 'session-1'",
		Top:    5,
	})
	require.NoError(t, err)

	assert.Equal(t, "revenue", gotBody.Search)
	assert.Equal(t, "sessionId eq 'session-1'", gotBody.Filter)
	assert.Equal(t, 5, gotBody.Top)
	assert.Equal(t, "any", gotBody.SearchMode)
	assert.Equal(t, "simple", gotBody.QueryType)

	require.Len(t, results, 2)
	assert.Equal(t, "first chunk", results[0].Document.Content)
	assert.Equal(t, 1.8, results[0].Score)
	require.NotNil(t, results[0].Document.PageNumber)
	assert.Equal(t, 3, *results[0].Document.PageNumber)
	assert.Nil(t, results[1].Document.PageNumber)
}

func TestSearchDefaultsTop(t *testing.T) {
	var gotBody searchRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(searchResponse{})
	})

	_, err := client.Search(context.Background(), "anything", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 10, gotBody.Top)
}

func TestSearchSurfacesServiceError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":    "InvalidRequestParameter",
				"message": "Invalid expression: syntax error",
			},
		})
	})

	_, err := client.Search(context.Background(), "anything", SearchOptions{Filter: "bogus ("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid expression")
	assert.Contains(t, err.Error(), "400")
}

func TestRunIndexerTargetsDefaultIndexer(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})

	err := client.RunIndexer(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/indexers/azureblob-indexer/run", gotPath)
}

func TestGetIndexerStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexers/custom-indexer/status", r.URL.Path)
		json.NewEncoder(w).Encode(IndexerStatus{
			Status:     "running",
			LastResult: &IndexerRunResult{Status: IndexerRunSuccess, ItemCount: 12},
		})
	})

	status, err := client.GetIndexerStatus(context.Background(), "custom-indexer")
	require.NoError(t, err)
	assert.Equal(t, "running", status.Status)
	require.NotNil(t, status.LastResult)
	assert.Equal(t, 12, status.LastResult.ItemCount)
}

func TestWaitForIndexerCompletionSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(IndexerStatus{
			Status:     "running",
			LastResult: &IndexerRunResult{Status: IndexerRunSuccess},
		})
	})

	status, err := client.WaitForIndexerCompletion(context.Background(), "", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, IndexerRunSuccess, status.LastResult.Status)
}

func TestWaitForIndexerCompletionFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(IndexerStatus{
			Status:     "running",
			LastResult: &IndexerRunResult{Status: IndexerRunError, ErrorMessage: "blob parse failed"},
		})
	})

	_, err := client.WaitForIndexerCompletion(context.Background(), "", 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), IndexerRunError)
}

func TestDocumentCount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/azureblob-index/docs/$count", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("42"))
	})

	count, err := client.DocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}
