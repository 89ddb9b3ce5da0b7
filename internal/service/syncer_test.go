package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/service/mocks"
)

func TestTopicUpsertedIndexesWithTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	topic := model.Topic{ID: "t1", Header: "Backups"}
	allTags := []model.Tag{{ID: "tag-1", Name: "Infra"}}

	tags.EXPECT().List(gomock.Any()).Return(allTags, nil)
	index.EXPECT().IndexTopic(gomock.Any(), topic, allTags).Return(nil)

	NewSyncer(topics, tags, index).TopicUpserted(context.Background(), topic)
}

func TestTopicUpsertedIndexFailureSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	topic := model.Topic{ID: "t1"}
	tags.EXPECT().List(gomock.Any()).Return(nil, nil)
	index.EXPECT().IndexTopic(gomock.Any(), topic, gomock.Any()).Return(errors.New("disk full"))

	// The error is logged and absorbed, never panics or propagates.
	NewSyncer(topics, tags, index).TopicUpserted(context.Background(), topic)
}

func TestTopicUpsertedIndexesEvenWhenTagListFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	topic := model.Topic{ID: "t1"}
	tags.EXPECT().List(gomock.Any()).Return(nil, errors.New("db closed"))
	// The document is still written, just without tag-derived fields.
	index.EXPECT().IndexTopic(gomock.Any(), topic, gomock.Nil()).Return(nil)

	NewSyncer(topics, tags, index).TopicUpserted(context.Background(), topic)
}

func TestTopicDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	index.EXPECT().RemoveTopic(gomock.Any(), "t1").Return(nil)

	NewSyncer(topics, tags, index).TopicDeleted(context.Background(), "t1")
}

func TestTagsChangedRebuilds(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	allTopics := []model.Topic{{ID: "t1"}, {ID: "t2"}}
	allTags := []model.Tag{{ID: "tag-1"}}

	topics.EXPECT().List(gomock.Any()).Return(allTopics, nil)
	tags.EXPECT().List(gomock.Any()).Return(allTags, nil)
	index.EXPECT().Rebuild(gomock.Any(), allTopics, allTags).Return(nil)

	NewSyncer(topics, tags, index).TagsChanged(context.Background())
}

func TestTagsChangedSkipsRebuildWhenListFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	topics.EXPECT().List(gomock.Any()).Return(nil, errors.New("db closed"))
	// No Rebuild call expected: stale documents beat half-built ones.

	NewSyncer(topics, tags, index).TagsChanged(context.Background())
}

func TestTagsChangedRebuildFailureSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	topics := mocks.NewMockTopicLister(ctrl)
	tags := mocks.NewMockTagLister(ctrl)
	index := mocks.NewMockTopicIndex(ctrl)

	topics.EXPECT().List(gomock.Any()).Return([]model.Topic{}, nil)
	tags.EXPECT().List(gomock.Any()).Return([]model.Tag{}, nil)
	index.EXPECT().Rebuild(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("locked"))

	NewSyncer(topics, tags, index).TagsChanged(context.Background())
}
