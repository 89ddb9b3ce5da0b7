// Package handlers contains the HTTP handlers for the API resources and
// the JSON response envelope they share.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

// MembersHandler handles HTTP requests for team members.
type MembersHandler struct {
	store     storage.MemberStore
	revisions storage.RevisionStore
}

// NewMembersHandler creates a new MembersHandler.
func NewMembersHandler(store storage.MemberStore, revisions storage.RevisionStore) *MembersHandler {
	return &MembersHandler{store: store, revisions: revisions}
}

// List handles GET /api/members.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	members, err := h.store.List(ctx)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, members, revisionID)
}

// Get handles GET /api/members/{id}.
func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	member, err := h.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, member, revisionID)
}

// Create handles POST /api/members.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		WriteError(w, apperr.Validation("display name is required"), revisionID)
		return
	}

	member, err := h.store.Create(ctx, req)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, member, currentRevision(ctx, h.revisions))
}

// Update handles PUT /api/members/{id}.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	var req model.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.BadRequest("invalid JSON body: "+err.Error()), revisionID)
		return
	}

	member, err := h.store.Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, member, currentRevision(ctx, h.revisions))
}

// Delete handles DELETE /api/members/{id}.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	revisionID := currentRevision(ctx, h.revisions)

	if err := h.store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		WriteError(w, err, revisionID)
		return
	}
	WriteSuccess(w, nil, currentRevision(ctx, h.revisions))
}
