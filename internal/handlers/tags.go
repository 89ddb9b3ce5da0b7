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

// TagsHandler handles HTTP requests for tags. Every successful tag write
// triggers a full index rebuild through the syncer, since tag names and
// keywords are derived fields of the topics carrying the tag.
type TagsHandler struct {
	store     storage.TagStore
	revisions storage.RevisionStore
	syncer    *service.Syncer
}

// NewTagsHandler creates a new TagsHandler.
func NewTagsHandler(store storage.TagStore, revisions storage.RevisionStore, syncer *service.Syncer) *TagsHandler {
	return &TagsHandler{store: store, revisions: revisions, syncer: syncer}
}

// List handles GET /api/tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	tags, err := h.store.List(ctx)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, tags, revisionID)
}

// Get handles GET /api/tags/{id}.
func (h *TagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	tag, err := h.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, tag, revisionID)
}

// Create handles POST /api/tags.
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, apperr.Validation("tag name is required"), revisionID)
		return
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		WriteError(w, apperr.Validation("createdBy (member ID) is required"), revisionID)
		return
	}

	tag, err := h.store.Create(ctx, req)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	h.syncer.TagsChanged(ctx)
	WriteSuccess(w, tag, currentRevision(ctx, h.revisions))
}

// Update handles PUT /api/tags/{id}.
func (h *TagsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.UpdateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}

	tag, err := h.store.Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	h.syncer.TagsChanged(ctx)
	WriteSuccess(w, tag, currentRevision(ctx, h.revisions))
}

// Delete handles DELETE /api/tags/{id}.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	if err := h.store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		WriteError(w, err, revisionID)
		return
	}
	h.syncer.TagsChanged(ctx)
	WriteSuccess(w, nil, currentRevision(ctx, h.revisions))
}
