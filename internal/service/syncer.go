// Package service holds the logic between the HTTP layer and the stores.
package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_syncer_deps.go -package=mocks github.com/account-closed/Ref39TopicAssistant/internal/service TopicLister,TagLister,TopicIndex

import (
	"context"
	"log/slog"

	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/search"
)

// TopicLister lists all topics for index rebuilds.
type TopicLister interface {
	List(ctx context.Context) ([]model.Topic, error)
}

// TagLister lists all tags for resolving topics' derived tag fields.
type TagLister interface {
	List(ctx context.Context) ([]model.Tag, error)
}

// TopicIndex is the search index as seen by the syncer.
type TopicIndex interface {
	Rebuild(ctx context.Context, topics []model.Topic, tags []model.Tag) error
	IndexTopic(ctx context.Context, topic model.Topic, tags []model.Tag) error
	RemoveTopic(ctx context.Context, topicID string) error
	Search(ctx context.Context, query string, limit, offset int) ([]search.Result, error)
}

// Syncer propagates committed record store changes into the search
// index. The store write has already committed and is authoritative,
// so an indexing failure is logged and never surfaced to the caller.
type Syncer struct {
	topics TopicLister
	tags   TagLister
	index  TopicIndex
	logger *slog.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(topics TopicLister, tags TagLister, index TopicIndex) *Syncer {
	return &Syncer{
		topics: topics,
		tags:   tags,
		index:  index,
		logger: slog.Default(),
	}
}

// TopicUpserted re-indexes a single topic after a successful create or
// update.
func (s *Syncer) TopicUpserted(ctx context.Context, topic model.Topic) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "listing tags for reindex failed", "topic_id", topic.ID, "error", err)
		tags = nil
	}
	if err := s.index.IndexTopic(ctx, topic, tags); err != nil {
		s.logger.WarnContext(ctx, "indexing topic failed", "topic_id", topic.ID, "error", err)
	}
}

// TopicDeleted removes a topic's document after a successful delete.
func (s *Syncer) TopicDeleted(ctx context.Context, topicID string) {
	if err := s.index.RemoveTopic(ctx, topicID); err != nil {
		s.logger.WarnContext(ctx, "removing topic from index failed", "topic_id", topicID, "error", err)
	}
}

// TagsChanged rebuilds the whole index. Tag keywords and names are
// derived fields of every topic carrying the tag, so any tag write can
// invalidate many documents.
func (s *Syncer) TagsChanged(ctx context.Context) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "listing topics for index rebuild failed", "error", err)
		return
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "listing tags for index rebuild failed", "error", err)
		return
	}
	if err := s.index.Rebuild(ctx, topics, tags); err != nil {
		s.logger.WarnContext(ctx, "search index rebuild failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "search index rebuilt", "topics", len(topics))
}
