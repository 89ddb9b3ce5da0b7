package handlers

import (
	"net/http"

	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

// DatastoreHandler serves full snapshots and the revision counter.
type DatastoreHandler struct {
	members   storage.MemberStore
	tags      storage.TagStore
	topics    storage.TopicStore
	revisions storage.RevisionStore
}

// NewDatastoreHandler creates a new DatastoreHandler.
func NewDatastoreHandler(members storage.MemberStore, tags storage.TagStore, topics storage.TopicStore, revisions storage.RevisionStore) *DatastoreHandler {
	return &DatastoreHandler{members: members, tags: tags, topics: topics, revisions: revisions}
}

// Get handles GET /api/datastore. The snapshot is assembled on demand
// from the live tables, stamped with the revision current at read time.
func (h *DatastoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	schemaVersion, info, err := h.revisions.Meta(ctx)
	if err != nil {
		WriteError(w, err, 0)
		return
	}

	members, err := h.members.List(ctx)
	if err != nil {
		WriteError(w, err, info.RevisionID)
		return
	}
	topics, err := h.topics.List(ctx)
	if err != nil {
		WriteError(w, err, info.RevisionID)
		return
	}
	tags, err := h.tags.List(ctx)
	if err != nil {
		WriteError(w, err, info.RevisionID)
		return
	}

	ds := model.Datastore{
		SchemaVersion: schemaVersion,
		GeneratedAt:   info.GeneratedAt,
		RevisionID:    info.RevisionID,
		Members:       members,
		Topics:        topics,
		Tags:          tags,
	}
	WriteSuccess(w, ds, info.RevisionID)
}

// Revision handles GET /api/datastore/revision. Clients poll this to
// detect stale local copies without pulling the whole snapshot.
func (h *DatastoreHandler) Revision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.revisions.RevisionInfo(ctx)
	if err != nil {
		WriteError(w, err, 0)
		return
	}
	WriteSuccess(w, info, info.RevisionID)
}
