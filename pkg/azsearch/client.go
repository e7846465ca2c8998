package azsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client is a typed REST client for the managed search service. The service
// has no official Go SDK, so the client wraps the documented HTTP contract:
// free-text queries against an index, indexer runs, and indexer status.
type Client struct {
	endpoint   string
	apiKey     string
	indexName  string
	apiVersion string
	httpClient *http.Client
}

type Config struct {
	Endpoint   string
	APIKey     string
	IndexName  string
	APIVersion string
}

func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" || config.APIKey == "" {
		return nil, fmt.Errorf("search configuration is missing")
	}

	return &Client{
		endpoint:   strings.TrimRight(config.Endpoint, "/"),
		apiKey:     config.APIKey,
		indexName:  config.IndexName,
		apiVersion: config.APIVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// DefaultIndexerName derives the indexer name from the index name. The
// deployment convention pairs "<name>-index" with "<name>-indexer".
func (c *Client) DefaultIndexerName() string {
	return strings.Replace(c.indexName, "-index", "-indexer", 1)
}

// Search issues a free-text query against the index. Results come back ordered
// by the index's relevance score.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	top := opts.Top
	if top == 0 {
		top = 10
	}

	reqBody := searchRequest{
		Search:     query,
		Filter:     opts.Filter,
		Top:        top,
		Skip:       opts.Skip,
		OrderBy:    strings.Join(opts.OrderBy, ","),
		SearchMode: "any",
		QueryType:  "simple",
		Count:      true,
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.indexName, c.apiVersion)

	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodPost, url, reqBody, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Value))
	for _, item := range resp.Value {
		results = append(results, SearchResult{
			Document: item.SearchDocument,
			Score:    item.Score,
		})
	}
	return results, nil
}

// RunIndexer asks the service to run an indexing job. An empty name targets
// the default indexer.
func (c *Client) RunIndexer(ctx context.Context, indexerName string) error {
	if indexerName == "" {
		indexerName = c.DefaultIndexerName()
	}

	log.Printf("Running indexer: %s", indexerName)
	url := fmt.Sprintf("%s/indexers/%s/run?api-version=%s", c.endpoint, indexerName, c.apiVersion)
	return c.doJSON(ctx, http.MethodPost, url, nil, nil)
}

// GetIndexerStatus reports the indexer's current status and its last run.
func (c *Client) GetIndexerStatus(ctx context.Context, indexerName string) (*IndexerStatus, error) {
	if indexerName == "" {
		indexerName = c.DefaultIndexerName()
	}

	url := fmt.Sprintf("%s/indexers/%s/status?api-version=%s", c.endpoint, indexerName, c.apiVersion)

	var status IndexerStatus
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// WaitForIndexerCompletion polls the indexer status until its last run reaches
// a terminal state or the budget elapses. Indexing is asynchronous with no
// completion callback, so a bounded poll is the only completion signal.
func (c *Client) WaitForIndexerCompletion(ctx context.Context, indexerName string, maxWait time.Duration) (*IndexerStatus, error) {
	pollInterval := 2 * time.Second
	deadline := time.Now().Add(maxWait)

	for time.Now().Before(deadline) {
		status, err := c.GetIndexerStatus(ctx, indexerName)
		if err != nil {
			return nil, err
		}

		if status.LastResult != nil {
			switch status.LastResult.Status {
			case IndexerRunSuccess:
				return status, nil
			case IndexerRunTransientFailure, IndexerRunError:
				return status, fmt.Errorf("indexer failed with status: %s", status.LastResult.Status)
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return nil, fmt.Errorf("indexer did not complete within %v", maxWait)
}

// DocumentCount returns the number of documents in the index, used by health
// checks as a cheap connectivity probe.
func (c *Client) DocumentCount(ctx context.Context) (int64, error) {
	url := fmt.Sprintf("%s/indexes/%s/docs/$count?api-version=%s", c.endpoint, c.indexName, c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, c.asServiceError(resp.StatusCode, body)
	}

	count, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected document count response: %q", body)
	}
	return count, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, reqBody, respBody interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asServiceError(resp.StatusCode, data)
	}

	if respBody != nil && len(data) > 0 {
		if err := json.Unmarshal(data, respBody); err != nil {
			return fmt.Errorf("failed to decode search response: %v", err)
		}
	}
	return nil
}

func (c *Client) asServiceError(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("search service error (%d): %s", statusCode, errResp.Error.Message)
	}
	return fmt.Errorf("search service error (%d)", statusCode)
}
