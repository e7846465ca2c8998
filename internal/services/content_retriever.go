package services

import (
	"context"
	"docuchat-ai/internal/apperrors"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"docuchat-ai/pkg/azsearch"
	"fmt"
	"log"
	"sort"
)

// SearchIndex is the slice of the search client the retriever consumes.
type SearchIndex interface {
	Search(ctx context.Context, query string, opts azsearch.SearchOptions) ([]azsearch.SearchResult, error)
}

// ContentRetriever queries the search index for passages relevant to a text
// query, scoped to a session. Ranking is the index's own relevance score.
type ContentRetriever interface {
	Search(ctx context.Context, query, sessionID string, top, skip int) ([]models.DocumentSearchResult, error)
	GetAllForSession(ctx context.Context, sessionID string) ([]models.DocumentSearchResult, error)
}

type contentRetriever struct {
	index SearchIndex
}

func NewContentRetriever(index SearchIndex) ContentRetriever {
	return &contentRetriever{index: index}
}

func (r *contentRetriever) Search(ctx context.Context, query, sessionID string, top, skip int) ([]models.DocumentSearchResult, error) {
	if top <= 0 {
		top = constants.DefaultSearchTop
	}

	opts := azsearch.SearchOptions{Top: top, Skip: skip}
	if sessionID != "" {
		opts.Filter = fmt.Sprintf("sessionId eq '%s'", sessionID)
	}

	raw, err := r.index.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSearch, err)
	}

	results := mapSearchResults(raw, sessionID)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// GetAllForSession is the unranked bulk retrieval used for content extraction.
func (r *contentRetriever) GetAllForSession(ctx context.Context, sessionID string) ([]models.DocumentSearchResult, error) {
	log.Printf("GetAllForSession -> session: %s", sessionID)

	raw, err := r.index.Search(ctx, "*", azsearch.SearchOptions{
		Filter: fmt.Sprintf("sessionId eq '%s'", sessionID),
		Top:    constants.BulkRetrievalCap,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSearch, err)
	}

	return mapSearchResults(raw, sessionID), nil
}

func mapSearchResults(raw []azsearch.SearchResult, sessionID string) []models.DocumentSearchResult {
	results := make([]models.DocumentSearchResult, 0, len(raw))
	for _, item := range raw {
		fileName := item.Document.MetadataStorageName
		if fileName == "" {
			fileName = "Unknown"
		}
		resultSessionID := item.Document.SessionID
		if resultSessionID == "" {
			resultSessionID = sessionID
		}
		results = append(results, models.DocumentSearchResult{
			Content: item.Document.Content,
			Metadata: models.DocumentMetadata{
				FileName:   fileName,
				SessionID:  resultSessionID,
				PageNumber: item.Document.PageNumber,
				Section:    item.Document.Section,
			},
			Score: item.Score,
		})
	}
	return results
}
