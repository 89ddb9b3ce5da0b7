package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/service"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// searchHit is one search result, the full topic plus its relevance.
type searchHit struct {
	Topic model.Topic `json:"topic"`
	Score float64     `json:"score"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// SearchHandler serves full-text topic search.
type SearchHandler struct {
	index     service.TopicIndex
	topics    storage.TopicStore
	revisions storage.RevisionStore
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(index service.TopicIndex, topics storage.TopicStore, revisions storage.RevisionStore) *SearchHandler {
	return &SearchHandler{index: index, topics: topics, revisions: revisions}
}

// Search handles GET /api/search. An empty or missing q yields an empty
// result set rather than an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", defaultSearchLimit)
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	hits, err := h.index.Search(ctx, query, limit, offset)
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			err = apperr.Search(err)
		}
		WriteError(w, err, revisionID)
		return
	}

	results := make([]searchHit, 0, len(hits))
	for _, hit := range hits {
		topic, err := h.topics.Get(ctx, hit.TopicID)
		if err != nil {
			// The index lags the store; a document whose topic is gone
			// is simply dropped from the result set.
			var appErr *apperr.Error
			if errors.As(err, &appErr) && appErr.Code == apperr.CodeNotFound {
				continue
			}
			WriteError(w, err, revisionID)
			return
		}
		results = append(results, searchHit{Topic: topic, Score: hit.Score})
	}

	WriteSuccess(w, searchResponse{
		Results: results,
		Total:   len(results),
		Limit:   limit,
		Offset:  offset,
	}, revisionID)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
