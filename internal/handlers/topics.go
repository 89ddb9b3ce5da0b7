package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/service"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

// TopicsHandler handles HTTP requests for topics.
type TopicsHandler struct {
	store     storage.TopicStore
	revisions storage.RevisionStore
	syncer    *service.Syncer
}

// NewTopicsHandler creates a new TopicsHandler.
func NewTopicsHandler(store storage.TopicStore, revisions storage.RevisionStore, syncer *service.Syncer) *TopicsHandler {
	return &TopicsHandler{store: store, revisions: revisions, syncer: syncer}
}

// List handles GET /api/topics.
func (h *TopicsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	topics, err := h.store.List(ctx)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, topics, revisionID)
}

// Get handles GET /api/topics/{id}.
func (h *TopicsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	topic, err := h.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, topic, revisionID)
}

// Create handles POST /api/topics.
func (h *TopicsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}
	if err := validateTopicCreate(req); err != nil {
		WriteError(w, err, revisionID)
		return
	}

	topic, err := h.store.Create(ctx, req)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	h.syncer.TopicUpserted(ctx, topic)
	WriteSuccess(w, topic, currentRevision(ctx, h.revisions))
}

// Update handles PUT /api/topics/{id}.
func (h *TopicsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.UpdateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}
	if req.Size != "" && !req.Size.Valid() {
		WriteError(w, apperr.Validation("invalid size %q", req.Size), revisionID)
		return
	}

	topic, err := h.store.Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	h.syncer.TopicUpserted(ctx, topic)
	WriteSuccess(w, topic, currentRevision(ctx, h.revisions))
}

// Delete handles DELETE /api/topics/{id}.
func (h *TopicsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(ctx, id); err != nil {
		WriteError(w, err, revisionID)
		return
	}
	h.syncer.TopicDeleted(ctx, id)
	WriteSuccess(w, nil, currentRevision(ctx, h.revisions))
}

// BatchUpdate handles PUT /api/topics/batch. All updates succeed or
// none do, and the datastore revision advances by exactly one.
func (h *TopicsHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.BatchUpdateTopicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}
	if len(req.Updates) == 0 {
		WriteError(w, apperr.Validation("updates must not be empty"), revisionID)
		return
	}
	for _, u := range req.Updates {
		if strings.TrimSpace(u.TopicID) == "" {
			WriteError(w, apperr.Validation("every update needs a topicId"), revisionID)
			return
		}
		if u.Changes.Size != "" && !u.Changes.Size.Valid() {
			WriteError(w, apperr.Validation("invalid size %q for topic %s", u.Changes.Size, u.TopicID), revisionID)
			return
		}
	}

	topics, err := h.store.BatchUpdate(ctx, req.Updates)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	for _, topic := range topics {
		h.syncer.TopicUpserted(ctx, topic)
	}
	WriteSuccess(w, topics, currentRevision(ctx, h.revisions))
}

func validateTopicCreate(req model.CreateTopicRequest) error {
	if strings.TrimSpace(req.Header) == "" {
		return apperr.Validation("topic header is required")
	}
	if strings.TrimSpace(req.Raci.R1MemberID) == "" {
		return apperr.Validation("raci.r1MemberId is required")
	}
	if req.Size != "" && !req.Size.Valid() {
		return apperr.Validation("invalid size %q", req.Size)
	}
	return nil
}
